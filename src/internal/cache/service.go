package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"lubritec-storefront-svc/src/internal/config"
	"lubritec-storefront-svc/src/internal/models"
)

// Service caches remote commerce data in Redis: the product catalog
// (the filter/pagination layer slices it on every list request),
// validated sessions for the auth middleware, and per-user cart
// snapshots used as a fallback when the commerce API is down.
type Service interface {
	GetCatalog(ctx context.Context) ([]*models.Product, error)
	SaveCatalog(ctx context.Context, products []*models.Product) error
	InvalidateCatalog(ctx context.Context) error

	GetActiveSession(ctx context.Context, key string) (*models.Session, error)
	CacheActiveSession(ctx context.Context, key string, session *models.Session) error
	DropSession(ctx context.Context, key string) error

	GetCartSnapshot(ctx context.Context, userID string) (*models.Cart, error)
	SaveCartSnapshot(ctx context.Context, userID string, cart *models.Cart) error
	DropCartSnapshot(ctx context.Context, userID string) error
}

type cacheService struct {
	client *redis.Client
	cfg    *config.CacheConfig
}

func NewCacheService(client *redis.Client, cfg *config.Configuration) Service {
	return &cacheService{
		client: client,
		cfg:    &cfg.Cache,
	}
}

func (c *cacheService) GetCatalog(ctx context.Context) ([]*models.Product, error) {
	data, err := c.client.Get(ctx, c.cfg.CatalogKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			logrus.Debug("Catalog not found in cache")
			return nil, nil // Not an error, just not found
		}
		logrus.WithError(err).Error("Failed to get catalog from cache")
		return nil, models.ErrRedisGet
	}

	var products []*models.Product
	if err := json.Unmarshal([]byte(data), &products); err != nil {
		logrus.WithError(err).Error("Failed to unmarshal cached catalog")
		return nil, models.ErrRedisGet
	}

	logrus.WithField("products", len(products)).Debug("Catalog retrieved from cache")
	return products, nil
}

func (c *cacheService) SaveCatalog(ctx context.Context, products []*models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal catalog for cache")
		return models.ErrRedisSet
	}

	ttl := time.Duration(c.cfg.CatalogExpirationMinutes) * time.Minute
	if err := c.client.Set(ctx, c.cfg.CatalogKey, data, ttl).Err(); err != nil {
		logrus.WithError(err).Error("Failed to cache catalog")
		return models.ErrRedisSet
	}

	logrus.WithField("products", len(products)).Debug("Catalog cached")
	return nil
}

func (c *cacheService) InvalidateCatalog(ctx context.Context) error {
	if err := c.client.Del(ctx, c.cfg.CatalogKey).Err(); err != nil {
		logrus.WithError(err).Error("Failed to invalidate catalog cache")
		return models.ErrRedisDelete
	}
	return nil
}

func (c *cacheService) GetActiveSession(ctx context.Context, key string) (*models.Session, error) {
	data, err := c.client.Get(ctx, sessionKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		logrus.WithError(err).WithField("key", key).Error("Failed to get session from cache")
		return nil, models.ErrRedisGet
	}

	var session models.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		logrus.WithError(err).WithField("key", key).Error("Failed to unmarshal session from cache")
		return nil, models.ErrRedisGet
	}

	return &session, nil
}

func (c *cacheService) CacheActiveSession(ctx context.Context, key string, session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal session for cache")
		return models.ErrRedisSet
	}

	ttl := time.Duration(c.cfg.SessionExpirationMinutes) * time.Minute
	if err := c.client.Set(ctx, sessionKey(key), data, ttl).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Error("Failed to cache session")
		return models.ErrRedisSet
	}

	return nil
}

func (c *cacheService) DropSession(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, sessionKey(key)).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Error("Failed to drop cached session")
		return models.ErrRedisDelete
	}
	return nil
}

func (c *cacheService) GetCartSnapshot(ctx context.Context, userID string) (*models.Cart, error) {
	data, err := c.client.Get(ctx, cartKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to get cart snapshot")
		return nil, models.ErrRedisGet
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to unmarshal cart snapshot")
		return nil, models.ErrRedisGet
	}

	return &cart, nil
}

func (c *cacheService) SaveCartSnapshot(ctx context.Context, userID string, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal cart snapshot")
		return models.ErrRedisSet
	}

	ttl := time.Duration(c.cfg.CartExpirationMinutes) * time.Minute
	if err := c.client.Set(ctx, cartKey(userID), data, ttl).Err(); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to cache cart snapshot")
		return models.ErrRedisSet
	}

	return nil
}

func (c *cacheService) DropCartSnapshot(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to drop cart snapshot")
		return models.ErrRedisDelete
	}
	return nil
}

func sessionKey(key string) string {
	return fmt.Sprintf("session:%s", key)
}

func cartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}
