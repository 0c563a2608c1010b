package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"accessgate-svc/src/internal/config"
	"accessgate-svc/src/internal/credential"
	"accessgate-svc/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const sessionHeader = "X-Session-ID"

type Handler interface {
	Login(c *gin.Context)
	Resume(c *gin.Context)
	Status(c *gin.Context)
	Activity(c *gin.Context)
	Account(c *gin.Context)
	Logout(c *gin.Context)
}

type handler struct {
	config  *config.Configuration
	manager *Manager
	gate    *credential.Gate
}

func NewHandler(cfg *config.Configuration, manager *Manager, gate *credential.Gate) Handler {
	return &handler{
		config:  cfg,
		manager: manager,
		gate:    gate,
	}
}

type loginRequest struct {
	Token string `json:"token"`
}

type resumeRequest struct {
	SessionID string `json:"sessionId"`
}

// Login exchanges a candidate token for a session. An invalid or expired
// token is a normal rejection, reported distinctly from a store failure.
func (h *handler) Login(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": "A token is required",
		})
		return
	}

	id, ok, err := h.manager.Login(ctx, req.Token)
	if err != nil {
		h.handleLoginError(c, err)
		return
	}

	if !ok {
		logrus.WithField("candidate", req.Token).Info("Token rejected")
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Token invalid or expired",
			"message": "Contact the admin for a fresh access token",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"sessionId": id},
		"message": "Access granted",
	})
}

func (h *handler) handleLoginError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Token must not be empty",
			"message": "Enter the access token you received",
		})
	default:
		logrus.WithError(err).Error("Login failed on store error")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Validation temporarily unavailable",
			"message": "Please retry shortly",
		})
	}
}

// Resume restores a session after a holder restart. The response tells
// the holder whether its stored session is still live.
func (h *handler) Resume(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var req resumeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": "A session id is required",
		})
		return
	}

	monitor, ok, err := h.manager.Resume(ctx, req.SessionID)
	if err != nil {
		logrus.WithError(err).Error("Session resume failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Session storage unavailable",
			"message": "Please retry shortly",
		})
		return
	}

	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Session expired",
			"message": "Log in with a fresh access token",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"sessionId": monitor.ID(), "state": monitor.State().String()},
		"message": "Session resumed",
	})
}

// Status reports the session state with the bound token's remaining
// lifetime. Holders poll it to drive their countdown display.
func (h *handler) Status(c *gin.Context) {
	monitor := h.manager.Get(c.GetHeader(sessionHeader))
	if monitor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Session expired",
			"message": "Log in with a fresh access token",
		})
		return
	}

	data := gin.H{"state": monitor.State().String()}
	if remaining, ok := monitor.Remaining(); ok {
		data["remaining"] = remaining
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// Activity records holder interaction, postponing idle termination.
func (h *handler) Activity(c *gin.Context) {
	if !h.manager.Touch(c.GetHeader(sessionHeader)) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Session expired",
			"message": "Log in with a fresh access token",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// Account returns the shared credential while the session is active.
func (h *handler) Account(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	sessionID := c.GetHeader(sessionHeader)
	monitor := h.manager.Get(sessionID)
	if monitor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Session expired",
			"message": "Log in with a fresh access token",
		})
		return
	}

	account, err := h.gate.Current(ctx, sessionID)
	if err != nil {
		h.handleAccountError(c, err)
		return
	}

	data := gin.H{"account": account}
	if remaining, ok := monitor.Remaining(); ok {
		data["remaining"] = remaining
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

func (h *handler) handleAccountError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrCredentialHidden):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Session expired",
			"message": "Log in with a fresh access token",
		})
	case errors.Is(err, models.ErrCredentialMissing):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Account not configured",
			"message": "The admin has not set the account credential yet",
		})
	default:
		logrus.WithError(err).Error("Failed to fetch shared credential")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve account",
			"message": err.Error(),
		})
	}
}

// Logout terminates the session on explicit holder request. Always
// succeeds: exiting an unknown session is a no-op.
func (h *handler) Logout(c *gin.Context) {
	h.manager.Exit(c.GetHeader(sessionHeader))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Session closed",
	})
}

func (h *handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
}
