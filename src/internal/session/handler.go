package session

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"lubritec-storefront-svc/src/internal/models"
)

// ContextKey is where the session middleware stores the per-request
// Manager in the gin context.
const ContextKey = "session_manager"

// FromContext returns the request's session manager. It is nil only
// when the session middleware did not run.
func FromContext(c *gin.Context) *Manager {
	value, exists := c.Get(ContextKey)
	if !exists {
		return nil
	}
	manager, ok := value.(*Manager)
	if !ok {
		return nil
	}
	return manager
}

// Handler exposes the auth endpoints of the storefront.
type Handler interface {
	Login(c *gin.Context)
	Logout(c *gin.Context)
	Current(c *gin.Context)
}

type handler struct{}

func NewHandler() Handler {
	return &handler{}
}

func (h *handler) Login(c *gin.Context) {
	manager := FromContext(c)
	if manager == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session layer unavailable"})
		return
	}

	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": "email and password are required",
		})
		return
	}

	sess, err := manager.Login(c.Request.Context(), &creds)
	if err != nil {
		h.handleLoginError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    sess,
		"message": "Login successful",
	})
}

func (h *handler) handleLoginError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrAuthBusy):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Login already in progress",
			"message": err.Error(),
		})
	case errors.Is(err, models.ErrInvalidAuthResponse):
		logrus.WithError(err).Error("Commerce API returned malformed login payload")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Invalid response from server",
			"message": err.Error(),
		})
	default:
		// Credential and network errors pass the remote message
		// through for the login form.
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Login failed",
			"message": err.Error(),
		})
	}
}

func (h *handler) Logout(c *gin.Context) {
	manager := FromContext(c)
	if manager == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session layer unavailable"})
		return
	}

	// Logout always locally succeeds.
	manager.Logout(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out",
	})
}

// Current reports the bootstrapped session, the storefront's
// equivalent of reading the store after initialization.
func (h *handler) Current(c *gin.Context) {
	manager := FromContext(c)
	if manager == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session layer unavailable"})
		return
	}

	user := manager.User()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"ready":         manager.Ready(),
			"authenticated": user != nil,
			"user":          user,
		},
	})
}
