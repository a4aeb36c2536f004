package cart

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"lubritec-storefront-svc/src/internal/config"
	"lubritec-storefront-svc/src/internal/models"
	"lubritec-storefront-svc/src/internal/session"
)

type Handler interface {
	Get(c *gin.Context)
	AddItem(c *gin.Context)
	UpdateItem(c *gin.Context)
	RemoveItem(c *gin.Context)
	Clear(c *gin.Context)
}

type handler struct {
	config  *config.Configuration
	service Service
}

func NewHandler(cfg *config.Configuration, service Service) Handler {
	return &handler{
		config:  cfg,
		service: service,
	}
}

// identity pulls the bearer token and user id of the current session.
func identity(c *gin.Context) (token, userID string, ok bool) {
	manager := session.FromContext(c)
	if manager == nil {
		return "", "", false
	}
	token = manager.Token()
	if token == "" {
		return "", "", false
	}
	if user := manager.User(); user != nil {
		userID = user.ID
	}
	return token, userID, true
}

func (h *handler) Get(c *gin.Context) {
	token, userID, ok := identity(c)
	if !ok {
		h.unauthorized(c)
		return
	}

	ctx, cancel := h.timeout(c)
	defer cancel()

	cart, err := h.service.Get(ctx, token, userID)
	if err != nil {
		h.cartError(c, err)
		return
	}

	h.respond(c, cart)
}

func (h *handler) AddItem(c *gin.Context) {
	token, userID, ok := identity(c)
	if !ok {
		h.unauthorized(c)
		return
	}

	var req models.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": "productId and a positive quantity are required",
		})
		return
	}

	ctx, cancel := h.timeout(c)
	defer cancel()

	cart, err := h.service.AddItem(ctx, token, userID, &req)
	if err != nil {
		h.cartError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"user_id":    userID,
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
	}).Info("Item added to cart")

	h.respond(c, cart)
}

func (h *handler) UpdateItem(c *gin.Context) {
	token, userID, ok := identity(c)
	if !ok {
		h.unauthorized(c)
		return
	}

	var req models.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": "a positive quantity is required",
		})
		return
	}

	ctx, cancel := h.timeout(c)
	defer cancel()

	cart, err := h.service.UpdateItem(ctx, token, userID, c.Param("itemId"), req.Quantity)
	if err != nil {
		h.cartError(c, err)
		return
	}

	h.respond(c, cart)
}

func (h *handler) RemoveItem(c *gin.Context) {
	token, userID, ok := identity(c)
	if !ok {
		h.unauthorized(c)
		return
	}

	ctx, cancel := h.timeout(c)
	defer cancel()

	cart, err := h.service.RemoveItem(ctx, token, userID, c.Param("itemId"))
	if err != nil {
		h.cartError(c, err)
		return
	}

	h.respond(c, cart)
}

func (h *handler) Clear(c *gin.Context) {
	token, _, ok := identity(c)
	if !ok {
		h.unauthorized(c)
		return
	}

	ctx, cancel := h.timeout(c)
	defer cancel()

	if err := h.service.Clear(ctx, token); err != nil {
		h.cartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cart cleared",
	})
}

func (h *handler) timeout(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
}

func (h *handler) respond(c *gin.Context, cart *models.Cart) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"cart":          cart,
			"itemCount":     cart.ItemCount(),
			"subtotalCents": cart.SubtotalCents(),
		},
	})
}

func (h *handler) unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error":   "Not authenticated",
		"message": "Sign in to use the cart",
	})
}

func (h *handler) cartError(c *gin.Context, err error) {
	logrus.WithError(err).Error("Cart operation failed")
	c.JSON(http.StatusBadGateway, gin.H{
		"error":   "Cart service unavailable",
		"message": err.Error(),
	})
}
