package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"lubritec-storefront-svc/src/internal/config"
	"lubritec-storefront-svc/src/internal/persistence"
	"lubritec-storefront-svc/src/internal/session"
)

// SessionMiddleware gives every request a session manager bound to
// the browser's shared state and this request's persistence store,
// and runs the idempotent cookie bootstrap.
type SessionMiddleware struct {
	registry *session.Registry
	auth     session.AuthAPI
	cart     session.CartClearer
	dropper  session.SessionDropper
	redis    *redis.Client
	cfg      *config.SessionSettings
}

func NewSessionMiddleware(registry *session.Registry, auth session.AuthAPI, cart session.CartClearer, dropper session.SessionDropper, redisClient *redis.Client, cfg *config.Configuration) *SessionMiddleware {
	return &SessionMiddleware{
		registry: registry,
		auth:     auth,
		cart:     cart,
		dropper:  dropper,
		redis:    redisClient,
		cfg:      &cfg.Session,
	}
}

func (m *SessionMiddleware) Attach() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := m.ensureBrowserID(c)

		state := m.registry.Get(sid)
		store := m.storeFor(c, sid)

		manager := session.NewManager(state, store, m.auth, m.cart, m.cfg).
			WithSessionDropper(m.dropper)
		manager.Initialize()

		c.Set(session.ContextKey, manager)
		c.Next()
	}
}

// ensureBrowserID reads the sid cookie or issues a new one. The sid
// only groups requests from one browser; it carries no identity.
func (m *SessionMiddleware) ensureBrowserID(c *gin.Context) string {
	if cookie, err := c.Request.Cookie(m.cfg.BrowserCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	sid := uuid.NewString()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     m.cfg.BrowserCookie,
		Value:    sid,
		Path:     "/",
		Expires:  time.Now().Add(time.Duration(m.cfg.CookieExpiryDays) * 24 * time.Hour),
		HttpOnly: true,
		Secure:   m.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}

func (m *SessionMiddleware) storeFor(c *gin.Context, sid string) persistence.Store {
	if m.cfg.Backend == "redis" && m.redis != nil {
		return persistence.NewRedisStore(c.Request.Context(), m.redis, sid)
	}
	return persistence.NewCookieStore(c.Request, c.Writer)
}
