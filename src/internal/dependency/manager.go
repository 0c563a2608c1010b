package dependency

import (
	"accessgate-svc/src/clients"
	"accessgate-svc/src/internal/config"
	"accessgate-svc/src/internal/credential"
	"accessgate-svc/src/internal/middleware"
	"accessgate-svc/src/internal/session"
	"accessgate-svc/src/internal/token"

	"github.com/gin-gonic/gin"
)

type Manager struct {
	Router            *gin.Engine
	Config            *config.Configuration
	Mongodb           *clients.MongoDB
	Redis             *clients.RedisClient
	RabbitMQ          *clients.RabbitMQ
	Events            *clients.EventPublisher
	TokenStore        token.Store
	TokenHandler      token.Handler
	CredentialHandler credential.Handler
	SessionManager    *session.Manager
	SessionHandler    session.Handler
	AuthMiddleware    *middleware.AuthMiddleware
}

func NewDependencyManager(router *gin.Engine,
	mongodb *clients.MongoDB,
	redisClient *clients.RedisClient,
	rabbitMQ *clients.RabbitMQ,
	cfg *config.Configuration) *Manager {

	var events *clients.EventPublisher
	if rabbitMQ != nil {
		events = clients.NewEventPublisher(cfg, rabbitMQ.Channel)
	}

	tokenStore := token.NewRepository(mongodb, cfg.Database.TokenCollection)
	issuer := token.NewIssuer(tokenStore, events, &cfg.Token)
	tokenHandler := token.NewHandler(cfg, issuer, tokenStore, events)

	credentialRepo := credential.NewRepository(mongodb, cfg.Database.CredentialCollection)
	gate := credential.NewGate(credentialRepo)
	credentialHandler := credential.NewHandler(cfg, credentialRepo)

	storage := session.NewRedisStorage(redisClient.Client, cfg)
	sessionManager := session.NewManager(tokenStore, storage, gate, events, cfg)
	sessionHandler := session.NewHandler(cfg, sessionManager, gate)

	return &Manager{
		Router:            router,
		Config:            cfg,
		Mongodb:           mongodb,
		Redis:             redisClient,
		RabbitMQ:          rabbitMQ,
		Events:            events,
		TokenStore:        tokenStore,
		TokenHandler:      tokenHandler,
		CredentialHandler: credentialHandler,
		SessionManager:    sessionManager,
		SessionHandler:    sessionHandler,
		AuthMiddleware:    middleware.NewAuthMiddleware(cfg),
	}
}
