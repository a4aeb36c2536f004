package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"lubritec-storefront-svc/src/internal/models"
)

// RedisStore keeps session values server-side, keyed by the browser
// identifier. It is selected with session.backend: "redis" when the
// deployment does not want tokens mirrored into cookies.
type RedisStore struct {
	ctx    context.Context
	client *redis.Client
	sid    string
}

// NewRedisStore binds a store to one browser identifier for the
// lifetime of a request. The context comes from the request so a
// cancelled request stops touching redis.
func NewRedisStore(ctx context.Context, client *redis.Client, sid string) *RedisStore {
	return &RedisStore{ctx: ctx, client: client, sid: sid}
}

func (s *RedisStore) key(name string) string {
	return "sess:" + s.sid + ":" + name
}

func (s *RedisStore) Set(name, value string, opts Options) error {
	var ttl time.Duration
	if !opts.Expires.IsZero() {
		ttl = time.Until(opts.Expires)
		if ttl <= 0 {
			return s.Remove(name)
		}
	}

	if err := s.client.Set(s.ctx, s.key(name), value, ttl).Err(); err != nil {
		logrus.WithError(err).WithField("key", s.key(name)).Error("Failed to write session value")
		return models.ErrRedisSet
	}
	return nil
}

func (s *RedisStore) Get(name string) (string, bool) {
	value, err := s.client.Get(s.ctx, s.key(name)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logrus.WithError(err).WithField("key", s.key(name)).Error("Failed to read session value")
		}
		return "", false
	}
	return normalize(value)
}

func (s *RedisStore) Remove(name string) error {
	if err := s.client.Del(s.ctx, s.key(name)).Err(); err != nil {
		logrus.WithError(err).WithField("key", s.key(name)).Error("Failed to delete session value")
		return models.ErrRedisDelete
	}
	return nil
}
