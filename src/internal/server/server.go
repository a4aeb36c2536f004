package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"lubritec-storefront-svc/src/clients"
	"lubritec-storefront-svc/src/internal/config"
	"lubritec-storefront-svc/src/internal/dependency"
)

var log = logrus.StandardLogger()

type Server struct {
	cfg  *config.Configuration
	deps *dependency.Manager
	http *http.Server
}

func New(cfg *config.Configuration) *Server {
	gin.SetMode(cfg.Server.Mode)

	mongodb, err := clients.NewMongoDB(&cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Cannot connect to MongoDB")
	}

	redisClient, err := clients.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.WithError(err).Fatal("Cannot connect to Redis")
	}

	rabbitMQ, err := clients.NewRabbitMQ(&cfg.Queue)
	if err != nil {
		log.WithError(err).Fatal("Cannot connect to RabbitMQ")
	}
	if err := rabbitMQ.SetupExchange(); err != nil {
		log.WithError(err).Fatal("Cannot declare RabbitMQ exchange")
	}

	router := gin.New()
	router.Use(gin.Recovery())

	deps := dependency.NewDependencyManager(router, mongodb, redisClient, rabbitMQ, cfg)
	SetupRoutes(deps)

	return &Server{
		cfg:  cfg,
		deps: deps,
		http: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      router,
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
			IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		},
	}
}

// Start serves until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	errCh := make(chan error, 1)
	go func() {
		log.Infof("Listening on :%s", s.cfg.Server.Port)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Infof("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}

	s.deps.Close()
	if err := s.deps.RabbitMQ.Close(); err != nil {
		log.WithError(err).Warn("RabbitMQ close failed")
	}
	if err := s.deps.Redis.Close(); err != nil {
		log.WithError(err).Warn("Redis close failed")
	}
	if err := s.deps.Mongodb.Close(ctx); err != nil {
		log.WithError(err).Warn("MongoDB close failed")
	}

	log.Info("Shutdown complete")
	return nil
}
