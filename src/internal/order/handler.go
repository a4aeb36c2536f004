package order

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"lubritec-storefront-svc/src/internal/config"
	"lubritec-storefront-svc/src/internal/models"
	"lubritec-storefront-svc/src/internal/session"
)

type Handler interface {
	Checkout(c *gin.Context)
	History(c *gin.Context)
	Get(c *gin.Context)
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

func (h *handler) Checkout(c *gin.Context) {
	manager := session.FromContext(c)
	if manager == nil || manager.Token() == "" {
		h.unauthorized(c)
		return
	}

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": "shippingAddress and city are required",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	userID := ""
	if user := manager.User(); user != nil {
		userID = user.ID
	}

	order, err := h.service.Checkout(ctx, manager.Token(), userID, &req)
	if err != nil {
		h.handleCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
		"message": "Order placed successfully",
	})
}

func (h *handler) handleCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidCard):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid card number",
			"message": "Check the card number and try again",
		})
	case errors.Is(err, models.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Cart is empty",
			"message": "Add items to the cart before checking out",
		})
	default:
		logrus.WithError(err).Error("Checkout failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Checkout failed",
			"message": err.Error(),
		})
	}
}

func (h *handler) History(c *gin.Context) {
	manager := session.FromContext(c)
	if manager == nil || manager.Token() == "" {
		h.unauthorized(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	orders, err := h.service.History(ctx, manager.Token())
	if err != nil {
		logrus.WithError(err).Error("Failed to load order history")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to retrieve orders",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

func (h *handler) Get(c *gin.Context) {
	manager := session.FromContext(c)
	if manager == nil || manager.Token() == "" {
		h.unauthorized(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	order, err := h.service.Get(ctx, manager.Token(), c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Order not found",
				"message": "No order found with the provided ID",
			})
			return
		}
		logrus.WithError(err).WithField("order_id", c.Param("id")).Error("Failed to load order")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to retrieve order",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

func (h *handler) unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error":   "Not authenticated",
		"message": "Sign in to manage orders",
	})
}
