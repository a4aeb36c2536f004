package admin

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"lubritec-storefront-svc/src/internal/audit"
	"lubritec-storefront-svc/src/internal/cache"
	"lubritec-storefront-svc/src/internal/config"
	"lubritec-storefront-svc/src/internal/models"
)

// API is the admin slice of the commerce client.
type API interface {
	CreateProduct(ctx context.Context, token string, input *models.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, token, productID string, input *models.ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, token, productID string) error
	UploadProductImage(ctx context.Context, token, productID, filename string, file io.Reader) (*models.Image, error)
	DeleteProductImage(ctx context.Context, token, productID, imageID string) error
	CreateCategory(ctx context.Context, token string, input *models.CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, token, categoryID string, input *models.CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, token, categoryID string) error
	ListAllOrders(ctx context.Context, token string) ([]*models.Order, error)
	UpdateOrderStatus(ctx context.Context, token, orderID, status string) (*models.Order, error)
}

type Handler interface {
	CreateProduct(c *gin.Context)
	UpdateProduct(c *gin.Context)
	DeleteProduct(c *gin.Context)
	UploadProductImage(c *gin.Context)
	DeleteProductImage(c *gin.Context)
	CreateCategory(c *gin.Context)
	UpdateCategory(c *gin.Context)
	DeleteCategory(c *gin.Context)
	ListOrders(c *gin.Context)
	UpdateOrderStatus(c *gin.Context)
	ListAuditTrail(c *gin.Context)
}

type handler struct {
	config *config.Configuration
	api    API
	audit  audit.Repository
	cache  cache.Service
}

func NewHandler(cfg *config.Configuration, api API, auditRepo audit.Repository, cacheService cache.Service) Handler {
	return &handler{
		config: cfg,
		api:    api,
		audit:  auditRepo,
		cache:  cacheService,
	}
}

func (h *handler) CreateProduct(c *gin.Context) {
	var input models.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, "name, categoryId and priceCents are required")
		return
	}

	ctx, cancel := h.timeout(c)
	defer cancel()

	product, err := h.api.CreateProduct(ctx, h.token(c), &input)
	if err != nil {
		h.upstreamError(c, "Failed to create product", err)
		return
	}

	h.invalidateCatalog(ctx)
	h.record(ctx, c, models.AuditActionCreate, "product", product.ID, product.Name)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    product,
		"message": "Product created successfully",
	})
}

func (h *handler) UpdateProduct(c *gin.Context) {
	var input models.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, "name, categoryId and priceCents are required")
		return
	}

	ctx, cancel := h.timeout(c)
	defer cancel()

	productID := c.Param("id")
	product, err := h.api.UpdateProduct(ctx, h.token(c), productID, &input)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			h.notFound(c, "Product not found")
			return
		}
		h.upstreamError(c, "Failed to update product", err)
		return
	}

	h.invalidateCatalog(ctx)
	h.record(ctx, c, models.AuditActionUpdate, "product", productID, product.Name)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
		"message": "Product updated successfully",
	})
}

func (h *handler) DeleteProduct(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	productID := c.Param("id")
	if err := h.api.DeleteProduct(ctx, h.token(c), productID); err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			h.notFound(c, "Product not found")
			return
		}
		h.upstreamError(c, "Failed to delete product", err)
		return
	}

	h.invalidateCatalog(ctx)
	h.record(ctx, c, models.AuditActionDelete, "product", productID, "")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product deleted successfully",
	})
}

func (h *handler) UploadProductImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		h.badRequest(c, "an image file is required")
		return
	}
	defer file.Close()

	ctx, cancel := h.timeout(c)
	defer cancel()

	productID := c.Param("id")
	image, err := h.api.UploadProductImage(ctx, h.token(c), productID, header.Filename, file)
	if err != nil {
		h.upstreamError(c, "Failed to upload image", err)
		return
	}

	h.invalidateCatalog(ctx)
	h.record(ctx, c, models.AuditActionUpload, "product-image", image.ID, header.Filename)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    image,
		"message": "Image uploaded successfully",
	})
}

func (h *handler) DeleteProductImage(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	productID := c.Param("id")
	imageID := c.Param("imageId")
	if err := h.api.DeleteProductImage(ctx, h.token(c), productID, imageID); err != nil {
		h.upstreamError(c, "Failed to delete image", err)
		return
	}

	h.invalidateCatalog(ctx)
	h.record(ctx, c, models.AuditActionDelete, "product-image", imageID, "")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Image deleted successfully",
	})
}

func (h *handler) CreateCategory(c *gin.Context) {
	var input models.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, "name is required")
		return
	}

	ctx, cancel := h.timeout(c)
	defer cancel()

	category, err := h.api.CreateCategory(ctx, h.token(c), &input)
	if err != nil {
		h.upstreamError(c, "Failed to create category", err)
		return
	}

	h.record(ctx, c, models.AuditActionCreate, "category", category.ID, category.Name)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    category,
		"message": "Category created successfully",
	})
}

func (h *handler) UpdateCategory(c *gin.Context) {
	var input models.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, "name is required")
		return
	}

	ctx, cancel := h.timeout(c)
	defer cancel()

	categoryID := c.Param("id")
	category, err := h.api.UpdateCategory(ctx, h.token(c), categoryID, &input)
	if err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			h.notFound(c, "Category not found")
			return
		}
		h.upstreamError(c, "Failed to update category", err)
		return
	}

	h.record(ctx, c, models.AuditActionUpdate, "category", categoryID, category.Name)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    category,
		"message": "Category updated successfully",
	})
}

func (h *handler) DeleteCategory(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	categoryID := c.Param("id")
	if err := h.api.DeleteCategory(ctx, h.token(c), categoryID); err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			h.notFound(c, "Category not found")
			return
		}
		h.upstreamError(c, "Failed to delete category", err)
		return
	}

	h.record(ctx, c, models.AuditActionDelete, "category", categoryID, "")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Category deleted successfully",
	})
}

func (h *handler) ListOrders(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	orders, err := h.api.ListAllOrders(ctx, h.token(c))
	if err != nil {
		h.upstreamError(c, "Failed to retrieve orders", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

func (h *handler) UpdateOrderStatus(c *gin.Context) {
	var update models.OrderStatusUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		h.badRequest(c, "status is required")
		return
	}
	if !validOrderStatus(update.Status) {
		h.badRequest(c, "unknown order status")
		return
	}

	ctx, cancel := h.timeout(c)
	defer cancel()

	orderID := c.Param("id")
	order, err := h.api.UpdateOrderStatus(ctx, h.token(c), orderID, update.Status)
	if err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			h.notFound(c, "Order not found")
			return
		}
		h.upstreamError(c, "Failed to update order status", err)
		return
	}

	h.record(ctx, c, models.AuditActionStatusChange, "order", orderID, update.Status)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
		"message": "Order status updated successfully",
	})
}

func (h *handler) ListAuditTrail(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	limit := int64(50)
	actorID := c.Query("actorId")

	var entries []*models.AuditEntry
	var err error
	if actorID != "" {
		entries, err = h.audit.ListByActor(ctx, actorID, limit)
	} else {
		entries, err = h.audit.ListRecent(ctx, limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve audit trail",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
	})
}

func validOrderStatus(status string) bool {
	switch status {
	case models.OrderStatusPending, models.OrderStatusConfirmed,
		models.OrderStatusShipped, models.OrderStatusDelivered,
		models.OrderStatusCancelled:
		return true
	}
	return false
}

func (h *handler) token(c *gin.Context) string {
	return c.GetString("auth_token")
}

func (h *handler) timeout(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
}

// record writes the audit entry; a failed write is logged, the admin
// action itself already happened.
func (h *handler) record(ctx context.Context, c *gin.Context, action, resource, resourceID, detail string) {
	if h.audit == nil {
		return
	}

	entry := &models.AuditEntry{
		ActorID:    c.GetString("user_id"),
		ActorEmail: c.GetString("user_email"),
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Detail:     detail,
	}
	if err := h.audit.Record(ctx, entry); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"action":   action,
			"resource": resource,
		}).Warn("Failed to record audit entry")
	}
}

func (h *handler) invalidateCatalog(ctx context.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.InvalidateCatalog(ctx); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate catalog cache")
	}
}

func (h *handler) badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request",
		"message": message,
	})
}

func (h *handler) notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{
		"error":   message,
		"message": "No resource found with the provided ID",
	})
}

func (h *handler) upstreamError(c *gin.Context, title string, err error) {
	logrus.WithError(err).Error(title)
	c.JSON(http.StatusBadGateway, gin.H{
		"error":   title,
		"message": err.Error(),
	})
}
