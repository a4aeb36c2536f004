package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"lubritec-storefront-svc/src/clients"
	"lubritec-storefront-svc/src/internal/cache"
	"lubritec-storefront-svc/src/internal/models"
	"lubritec-storefront-svc/src/internal/session"
)

// Claims represents the commerce API's token claims. The key is
// shared with the commerce API so tokens can be checked locally
// without a remote round-trip per request.
type Claims struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware handles authentication and authorization for
// protected routes.
type AuthMiddleware struct {
	jwtSecret    string
	cacheService cache.Service
	events       clients.EventPublisher
	serviceName  string
}

func NewAuthMiddleware(jwtSecret string, cacheService cache.Service, events clients.EventPublisher, serviceName string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret:    jwtSecret,
		cacheService: cacheService,
		events:       events,
		serviceName:  serviceName,
	}
}

// RequireAuth validates the bearer token and stores the caller's
// identity in the gin context. The validated identity is cached in
// redis keyed by token, so repeated requests from the same actor hit
// the cache instead of re-parsing the JWT.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization token is required",
			})
			c.Abort()
			return
		}

		if m.authorizeFromCache(c, token) {
			c.Next()
			return
		}

		claims, err := m.validateJWTToken(token)
		if err != nil {
			logrus.WithError(err).Warn("JWT token validation failed")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("session_id", claims.SessionID)
		c.Set("user_email", claims.Email)
		c.Set("user_role", claims.Role)
		c.Set("auth_token", token)

		m.rememberSession(c, claims, token)

		logrus.WithFields(logrus.Fields{
			"user_id":   claims.UserID,
			"user_role": claims.Role,
		}).Debug("User authenticated successfully")

		c.Next()
	}
}

// authorizeFromCache resolves the identity from a previously validated
// session. The cache TTL is shorter than the token lifetime, so expiry
// falls back to a full JWT validation rather than extending access.
func (m *AuthMiddleware) authorizeFromCache(c *gin.Context, token string) bool {
	if m.cacheService == nil {
		return false
	}

	sess, err := m.cacheService.GetActiveSession(c.Request.Context(), token)
	if err != nil || sess == nil || sess.User == nil {
		return false
	}

	c.Set("user_id", sess.User.ID)
	c.Set("session_id", sess.SessionID)
	c.Set("user_email", sess.User.Email)
	c.Set("user_role", sess.User.Role)
	c.Set("auth_token", token)

	logrus.WithField("user_id", sess.User.ID).Debug("User authenticated from cached session")
	return true
}

// RequireAdminRights checks if user has admin privileges
func (m *AuthMiddleware) RequireAdminRights() gin.HandlerFunc {
	return func(c *gin.Context) {
		userRoleInterface, exists := c.Get("user_role")
		if !exists {
			logrus.Error("User role not found in context - ensure RequireAuth middleware runs first")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		userRole, ok := userRoleInterface.(string)
		if !ok || userRole != models.RoleAdmin {
			userID, _ := c.Get("user_id")
			logrus.WithFields(logrus.Fields{
				"user_id":   userID,
				"user_role": userRole,
			}).Warn("User attempted to access admin endpoint without admin privileges")

			c.JSON(http.StatusForbidden, gin.H{
				"error": "Access forbidden - admin privileges required",
			})
			c.Abort()
			return
		}

		if m.events != nil {
			userID, _ := c.Get("user_id")
			sessionID, _ := c.Get("session_id")
			routeName := c.GetString("route_name")

			err := m.events.PublishActivity(&models.ActivityMessage{
				UserID:      toString(userID),
				SessionID:   toString(sessionID),
				ServiceName: m.serviceName,
				Action:      routeName,
				IPAddress:   c.ClientIP(),
				UserAgent:   c.Request.UserAgent(),
			})
			if err != nil {
				logrus.WithError(err).Debug("Failed to publish admin activity")
			}
		}

		c.Next()
	}
}

// extractToken pulls the bearer token from the Authorization header,
// falling back to the session manager's state for browser requests
// that carry only cookies.
func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		if !strings.HasPrefix(authHeader, "Bearer ") {
			logrus.Warn("Invalid authorization header format")
			return ""
		}
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	if manager := session.FromContext(c); manager != nil {
		return manager.Token()
	}
	return ""
}

// validateJWTToken parses the token and checks signature and expiry.
func (m *AuthMiddleware) validateJWTToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(m.jwtSecret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("token expired")
		}
		return nil, errors.New("invalid token")
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// rememberSession caches the validated identity under the token, where
// authorizeFromCache will find it on the next request.
func (m *AuthMiddleware) rememberSession(c *gin.Context, claims *Claims, token string) {
	if m.cacheService == nil {
		return
	}

	sess := &models.Session{
		Token:     token,
		SessionID: claims.SessionID,
		User: &models.User{
			ID:    claims.UserID,
			Email: claims.Email,
			Role:  claims.Role,
		},
	}
	sess.User.Normalize()

	if err := m.cacheService.CacheActiveSession(c.Request.Context(), token, sess); err != nil {
		logrus.WithError(err).Debug("Failed to cache validated session")
	}
}

func toString(value any) string {
	s, _ := value.(string)
	return s
}
