package credential

import (
	"context"
	"errors"
	"net/http"
	"time"

	"accessgate-svc/src/internal/config"
	"accessgate-svc/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler interface {
	GetCredential(c *gin.Context)
	UpdateCredential(c *gin.Context)
}

type handler struct {
	config *config.Configuration
	repo   Repository
}

func NewHandler(cfg *config.Configuration, repo Repository) Handler {
	return &handler{
		config: cfg,
		repo:   repo,
	}
}

type updateRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// GetCredential returns the shared credential for the admin surface.
func (h *handler) GetCredential(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	credential, err := h.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, models.ErrCredentialMissing) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Credential not configured",
				"message": "Set the shared credential first",
			})
			return
		}
		logrus.WithError(err).Error("Failed to get shared credential")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve credential",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    credential,
		"message": "Credential retrieved successfully",
	})
}

// UpdateCredential replaces the shared credential pair. Active holders
// see the new values on their next fetch.
func (h *handler) UpdateCredential(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": "Both email and password are required",
		})
		return
	}

	logrus.Info("Updating shared credential")

	credential, err := h.repo.Upsert(ctx, req.Email, req.Password)
	if err != nil {
		logrus.WithError(err).Error("Failed to update shared credential")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update credential",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    credential,
		"message": "Credential updated successfully",
	})
}

func (h *handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
}
