package catalog

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"lubritec-storefront-svc/src/internal/config"
	"lubritec-storefront-svc/src/internal/models"
)

type Handler interface {
	ListProducts(c *gin.Context)
	GetProduct(c *gin.Context)
	ListCategories(c *gin.Context)
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

func (h *handler) ListProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	req := &models.ProductListRequest{
		Page:       parseIntParam(c, "page", 1),
		Limit:      parseIntParam(c, "limit", h.config.Catalog.DefaultPageSize),
		CategoryID: c.Query("categoryId"),
		Search:     c.Query("search"),
		Brand:      c.Query("brand"),
	}

	logrus.WithFields(logrus.Fields{
		"page":     req.Page,
		"limit":    req.Limit,
		"category": req.CategoryID,
		"search":   req.Search,
	}).Debug("ListProducts request received")

	response, err := h.service.ListProducts(ctx, req)
	if err != nil {
		logrus.WithError(err).Error("Failed to list products")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to retrieve products",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    response,
	})
}

func (h *handler) GetProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	productID := c.Param("id")
	product, err := h.service.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Product not found",
				"message": "No product found with the provided ID",
			})
			return
		}
		logrus.WithError(err).WithField("product_id", productID).Error("Failed to get product")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to retrieve product",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

func (h *handler) ListCategories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	categories, err := h.service.ListCategories(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to list categories")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to retrieve categories",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    categories,
	})
}

func parseIntParam(c *gin.Context, param string, defaultValue int) int {
	value := c.Query(param)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"param": param,
			"value": value,
		}).Warn("Invalid integer parameter, using default")
		return defaultValue
	}
	return parsed
}
