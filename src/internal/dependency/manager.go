package dependency

import (
	"time"

	"github.com/gin-gonic/gin"

	"lubritec-storefront-svc/src/clients"
	"lubritec-storefront-svc/src/internal/admin"
	"lubritec-storefront-svc/src/internal/audit"
	"lubritec-storefront-svc/src/internal/cache"
	"lubritec-storefront-svc/src/internal/cart"
	"lubritec-storefront-svc/src/internal/catalog"
	"lubritec-storefront-svc/src/internal/config"
	"lubritec-storefront-svc/src/internal/middleware"
	"lubritec-storefront-svc/src/internal/order"
	"lubritec-storefront-svc/src/internal/session"
)

type Manager struct {
	Router          *gin.Engine
	Config          *config.Configuration
	Mongodb         *clients.MongoDB
	Redis           *clients.RedisClient
	RabbitMQ        *clients.RabbitMQ
	Commerce        *clients.Commerce
	Events          clients.EventPublisher
	CacheService    cache.Service
	SessionRegistry *session.Registry
	SessionMW       *middleware.SessionMiddleware
	AuthMW          *middleware.AuthMiddleware
	Metrics         *middleware.Metrics
	AuditRepo       audit.Repository
	SessionHandler  session.Handler
	CatalogHandler  catalog.Handler
	CartHandler     cart.Handler
	OrderHandler    order.Handler
	AdminHandler    admin.Handler
}

func NewDependencyManager(router *gin.Engine,
	mongodb *clients.MongoDB,
	redisClient *clients.RedisClient,
	rabbitMQ *clients.RabbitMQ,
	cfg *config.Configuration) *Manager {

	commerce := clients.NewCommerce(&cfg.ExternalServices.CommerceAPI)
	events := clients.NewEventPublisher(rabbitMQ, cfg)
	cacheService := cache.NewCacheService(redisClient.Client, cfg)

	cartService := cart.NewService(commerce, cacheService)
	catalogService := catalog.NewService(commerce, cacheService, cfg)
	orderService := order.NewService(commerce, events)
	auditRepo := audit.NewRepository(mongodb, cfg.Database.AuditCollection)

	registry := session.NewRegistry(
		time.Duration(cfg.Session.LockTimeoutSeconds)*time.Second,
		time.Duration(cfg.Session.IdleMinutes)*time.Minute,
	)

	sessionMW := middleware.NewSessionMiddleware(registry, commerce, cartService, cacheService, redisClient.Client, cfg)
	authMW := middleware.NewAuthMiddleware(cfg.Security.JwtKey, cacheService, events, cfg.App.Name)
	metrics := middleware.NewMetrics(cfg.App.Name)

	return &Manager{
		Router:          router,
		Config:          cfg,
		Mongodb:         mongodb,
		Redis:           redisClient,
		RabbitMQ:        rabbitMQ,
		Commerce:        commerce,
		Events:          events,
		CacheService:    cacheService,
		SessionRegistry: registry,
		SessionMW:       sessionMW,
		AuthMW:          authMW,
		Metrics:         metrics,
		AuditRepo:       auditRepo,
		SessionHandler:  session.NewHandler(),
		CatalogHandler:  catalog.NewHandler(cfg, catalogService),
		CartHandler:     cart.NewHandler(cfg, cartService),
		OrderHandler:    order.NewHandler(cfg, orderService),
		AdminHandler:    admin.NewHandler(cfg, commerce, auditRepo, cacheService),
	}
}

// Close releases the long-lived resources owned by the manager.
func (m *Manager) Close() {
	m.SessionRegistry.Close()
}
