package clients

import (
	"context"
	"io"
	"net/http"

	"lubritec-storefront-svc/src/internal/models"
)

// Admin endpoints of the commerce API. The bearer token must belong to
// an admin account; the remote side enforces that too.

func (c *Commerce) CreateProduct(ctx context.Context, token string, input *models.ProductInput) (*models.Product, error) {
	var result struct {
		Data *models.Product `json:"data"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(input).
		SetResult(&result).
		SetError(&apiEnvelope{}).
		Post("/admin/products")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return result.Data, nil
}

func (c *Commerce) UpdateProduct(ctx context.Context, token, productID string, input *models.ProductInput) (*models.Product, error) {
	var result struct {
		Data *models.Product `json:"data"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(input).
		SetResult(&result).
		SetError(&apiEnvelope{}).
		Put("/admin/products/" + productID)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, models.ErrProductNotFound
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return result.Data, nil
}

func (c *Commerce) DeleteProduct(ctx context.Context, token, productID string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetError(&apiEnvelope{}).
		Delete("/admin/products/" + productID)
	if err != nil {
		return err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return models.ErrProductNotFound
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

// UploadProductImage streams an image file through to the commerce
// API; the storage backend behind it is not our concern.
func (c *Commerce) UploadProductImage(ctx context.Context, token, productID, filename string, file io.Reader) (*models.Image, error) {
	var result struct {
		Data *models.Image `json:"data"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetFileReader("image", filename, file).
		SetResult(&result).
		SetError(&apiEnvelope{}).
		Post("/admin/products/" + productID + "/images")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return result.Data, nil
}

func (c *Commerce) DeleteProductImage(ctx context.Context, token, productID, imageID string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetError(&apiEnvelope{}).
		Delete("/admin/products/" + productID + "/images/" + imageID)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

func (c *Commerce) CreateCategory(ctx context.Context, token string, input *models.CategoryInput) (*models.Category, error) {
	var result struct {
		Data *models.Category `json:"data"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(input).
		SetResult(&result).
		SetError(&apiEnvelope{}).
		Post("/admin/categories")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return result.Data, nil
}

func (c *Commerce) UpdateCategory(ctx context.Context, token, categoryID string, input *models.CategoryInput) (*models.Category, error) {
	var result struct {
		Data *models.Category `json:"data"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(input).
		SetResult(&result).
		SetError(&apiEnvelope{}).
		Put("/admin/categories/" + categoryID)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, models.ErrCategoryNotFound
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return result.Data, nil
}

func (c *Commerce) DeleteCategory(ctx context.Context, token, categoryID string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetError(&apiEnvelope{}).
		Delete("/admin/categories/" + categoryID)
	if err != nil {
		return err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return models.ErrCategoryNotFound
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

func (c *Commerce) ListAllOrders(ctx context.Context, token string) ([]*models.Order, error) {
	var result struct {
		Data []*models.Order `json:"data"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&result).
		SetError(&apiEnvelope{}).
		Get("/admin/orders")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return result.Data, nil
}

func (c *Commerce) UpdateOrderStatus(ctx context.Context, token, orderID, status string) (*models.Order, error) {
	var result struct {
		Data *models.Order `json:"data"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(models.OrderStatusUpdate{Status: status}).
		SetResult(&result).
		SetError(&apiEnvelope{}).
		Patch("/admin/orders/" + orderID + "/status")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, models.ErrOrderNotFound
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return result.Data, nil
}
