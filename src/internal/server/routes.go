package server

import (
	"time"

	"accessgate-svc/src/internal/dependency"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(deps *dependency.Manager) {
	router := deps.Router
	router.Use(enableCORS)

	setupHealthEndpoint(deps)
	setupAccessRoutes(router, deps)
	setupAdminRoutes(router, deps)
}

func setupHealthEndpoint(deps *dependency.Manager) {
	router := deps.Router
	mongodb := deps.Mongodb
	redisClient := deps.Redis
	cfg := deps.Config

	router.GET("/health", func(c *gin.Context) {
		mongoStatus := "ok"
		if err := mongodb.Client.Ping(c.Request.Context(), nil); err != nil {
			mongoStatus = "error: " + err.Error()
		}

		redisStatus := "ok"
		if err := redisClient.Client.Ping(c.Request.Context()).Err(); err != nil {
			redisStatus = "error: " + err.Error()
		}

		c.JSON(200, gin.H{
			"status":    "ok",
			"service":   cfg.App.Name,
			"version":   cfg.App.Version,
			"mongodb":   mongoStatus,
			"redis":     redisStatus,
			"timestamp": time.Now().UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	})
}

// setupAccessRoutes exposes the holder surface: token submission,
// session resume, activity heartbeat, gated account access and exit.
func setupAccessRoutes(router *gin.Engine, deps *dependency.Manager) {
	handler := deps.SessionHandler

	access := router.Group("/api/v1/access")
	{
		access.POST("/login", handler.Login)
		access.POST("/resume", handler.Resume)
		access.GET("/status", handler.Status)
		access.POST("/activity", handler.Activity)
		access.GET("/account", handler.Account)
		access.POST("/logout", handler.Logout)
	}
}

// setupAdminRoutes exposes the admin surface behind JWT auth: token
// minting, listing, revocation and shared credential management.
func setupAdminRoutes(router *gin.Engine, deps *dependency.Manager) {
	authMiddleware := deps.AuthMiddleware
	tokens := deps.TokenHandler
	credentials := deps.CredentialHandler

	router.POST("/api/v1/admin/login", authMiddleware.LoginHandler())

	admin := router.Group("/api/v1/admin")
	admin.Use(authMiddleware.RequireAdmin())
	{
		admin.POST("/tokens", tokens.CreateToken)
		admin.GET("/tokens", tokens.ListTokens)
		admin.PATCH("/tokens/:id/revoke", tokens.RevokeToken)

		admin.GET("/credential", credentials.GetCredential)
		admin.PUT("/credential", credentials.UpdateCredential)
	}
}

func enableCORS(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Session-ID")

	if c.Request.Method == "OPTIONS" {
		c.AbortWithStatus(204)
		return
	}

	c.Next()
}
