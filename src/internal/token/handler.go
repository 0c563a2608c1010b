package token

import (
	"context"
	"errors"
	"net/http"
	"time"

	"accessgate-svc/src/clients"
	"accessgate-svc/src/internal/config"
	"accessgate-svc/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler interface {
	CreateToken(c *gin.Context)
	ListTokens(c *gin.Context)
	RevokeToken(c *gin.Context)
}

type handler struct {
	config *config.Configuration
	issuer *Issuer
	store  Store
	events *clients.EventPublisher
}

func NewHandler(cfg *config.Configuration, issuer *Issuer, store Store, events *clients.EventPublisher) Handler {
	return &handler{
		config: cfg,
		issuer: issuer,
		store:  store,
		events: events,
	}
}

// CreateToken mints a fresh access token. The value is returned once in
// the response; there is no way to read it back later.
func (h *handler) CreateToken(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	logrus.Info("CreateToken request received")

	record, err := h.issuer.Issue(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to create token")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Token store unavailable",
			"message": "Please retry shortly",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    record.ToView(time.Now()),
		"message": "Token created successfully",
	})
}

// ListTokens returns every token record with its remaining lifetime,
// partition counts included for the admin overview.
func (h *handler) ListTokens(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	records, err := h.store.List(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to list tokens")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Token store unavailable",
			"message": "Please retry shortly",
		})
		return
	}

	now := time.Now()
	views := make([]*View, len(records))
	active := 0
	for i, record := range records {
		views[i] = record.ToView(now)
		if record.ValidAt(now) {
			active++
		}
	}

	logrus.WithFields(logrus.Fields{
		"total":  len(views),
		"active": active,
	}).Debug("Tokens listed")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"tokens": views,
			"total":  len(views),
			"active": active,
		},
		"message": "Tokens retrieved successfully",
	})
}

// RevokeToken clears the is_active flag before natural expiry. Every
// subscribed validator observes the change and terminates its session.
func (h *handler) RevokeToken(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	tokenID := c.Param("id")
	if tokenID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Token ID is required",
			"message": "Please provide a valid token ID",
		})
		return
	}

	logrus.WithField("token_id", tokenID).Info("Revoking token")

	err := h.store.Deactivate(ctx, tokenID)
	if err != nil {
		h.handleRevokeError(c, tokenID, err)
		return
	}

	if err := h.events.Publish(models.LifecycleEvent{
		Event:   models.EventTokenRevoked,
		TokenID: tokenID,
	}); err != nil {
		logrus.WithError(err).Warn("Token revoked but event publication failed")
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Token revoked successfully",
	})
}

func (h *handler) handleRevokeError(c *gin.Context, tokenID string, err error) {
	logrus.WithError(err).WithField("token_id", tokenID).Error("Failed to revoke token")

	switch {
	case errors.Is(err, models.ErrTokenNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Token not found",
			"message": "No token found with the provided ID",
		})
	case errors.Is(err, models.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid token ID",
			"message": "Please provide a valid token ID",
		})
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Token store unavailable",
			"message": "Please retry shortly",
		})
	}
}

func (h *handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
}
