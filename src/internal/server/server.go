package server

import (
	"context"
	"net/http"
	"time"

	"accessgate-svc/src/clients"
	"accessgate-svc/src/internal/config"
	"accessgate-svc/src/internal/dependency"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	cfg  *config.Configuration
	deps *dependency.Manager
}

// New connects the external collaborators and wires the dependency graph.
// Mongo and Redis are required; RabbitMQ is best-effort since lifecycle
// events must never block the engine.
func New(cfg *config.Configuration) *Server {
	mongodb, err := clients.NewMongoDB(&cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to MongoDB")
	}

	redisClient, err := clients.NewRedisClient(&cfg.Redis)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to Redis")
	}

	rabbitMQ, err := clients.NewRabbitMQ(&cfg.Queue)
	if err != nil {
		logrus.WithError(err).Warn("RabbitMQ unavailable, lifecycle events disabled")
		rabbitMQ = nil
	} else if err := rabbitMQ.SetupExchange(); err != nil {
		logrus.WithError(err).Warn("Failed to declare exchange, lifecycle events disabled")
		rabbitMQ.Close()
		rabbitMQ = nil
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())

	deps := dependency.NewDependencyManager(router, mongodb, redisClient, rabbitMQ, cfg)
	SetupRoutes(deps)

	return &Server{
		cfg:  cfg,
		deps: deps,
	}
}

func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         ":" + s.cfg.Server.Port,
		Handler:      s.deps.Router,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Server.IdleTimeout) * time.Second,
	}

	logrus.Infof("Listening on port %s", s.cfg.Server.Port)
	return srv.ListenAndServe()
}

// Shutdown closes the external collaborator connections.
func (s *Server) Shutdown(ctx context.Context) {
	if s.deps.RabbitMQ != nil {
		s.deps.RabbitMQ.Close()
	}
	if s.deps.Redis != nil {
		s.deps.Redis.Close()
	}
	if s.deps.Mongodb != nil {
		s.deps.Mongodb.Close(ctx)
	}
}
