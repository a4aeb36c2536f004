package clients

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"lubritec-storefront-svc/src/internal/config"
	"lubritec-storefront-svc/src/internal/models"
)

// Commerce talks to the remote commerce API that owns all persistence:
// authentication, catalog, carts and orders. Every response carries a
// {status, data, message} envelope.
type Commerce struct {
	client *resty.Client
}

type apiEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func NewCommerce(cfg *config.CommerceAPIConfig) *Commerce {
	client := resty.New().
		SetHostURL(cfg.URL).
		SetTimeout(time.Duration(cfg.Timeout) * time.Second).
		SetRetryCount(cfg.RetryCount).
		SetHeader("Accept", "application/json")

	return &Commerce{client: client}
}

// apiError turns a non-2xx response into an error carrying the remote
// message verbatim; callers surface it to the user.
func apiError(resp *resty.Response) error {
	envelope, ok := resp.Error().(*apiEnvelope)
	if ok && envelope.Message != "" {
		return fmt.Errorf("%s", envelope.Message)
	}
	return fmt.Errorf("commerce api returned status %d", resp.StatusCode())
}

// Login authenticates the credentials. A 2xx response missing the
// token or the user record is a fatal invalid-response error; the
// commerce API has shipped both omissions before.
func (c *Commerce) Login(ctx context.Context, creds *models.Credentials) (*models.Session, error) {
	var result struct {
		Status string `json:"status"`
		Data   struct {
			Token string       `json:"token"`
			User  *models.User `json:"user"`
		} `json:"data"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(creds).
		SetResult(&result).
		SetError(&apiEnvelope{}).
		Post("/auth/login")
	if err != nil {
		log.WithError(err).Error("Failed to reach commerce API for login")
		return nil, err
	}
	if resp.IsError() {
		// Credential rejections included: the remote message is what
		// the login form shows, so it passes through verbatim.
		return nil, apiError(resp)
	}

	if result.Data.Token == "" || result.Data.User == nil {
		log.WithField("status", result.Status).Error("Login response missing token or user")
		return nil, models.ErrInvalidAuthResponse
	}

	return &models.Session{
		Token: result.Data.Token,
		User:  result.Data.User,
	}, nil
}

// ListProducts fetches the full catalog. Filtering and pagination
// stay on our side.
func (c *Commerce) ListProducts(ctx context.Context) ([]*models.Product, error) {
	var result struct {
		Data []*models.Product `json:"data"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&apiEnvelope{}).
		Get("/products")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return result.Data, nil
}

func (c *Commerce) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	var result struct {
		Data *models.Product `json:"data"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&apiEnvelope{}).
		Get("/products/" + productID)
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

func (c *Commerce) ListCategories(ctx context.Context) ([]*models.Category, error) {
	var result struct {
		Data []*models.Category `json:"data"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&apiEnvelope{}).
		Get("/categories")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return result.Data, nil
}

// --- cart ---

func (c *Commerce) GetCart(ctx context.Context, token string) (*models.Cart, error) {
	var result struct {
		Data *models.Cart `json:"data"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&result).
		SetError(&apiEnvelope{}).
		Get("/cart")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return result.Data, nil
}

func (c *Commerce) AddCartItem(ctx context.Context, token string, req *models.AddItemRequest) (*models.Cart, error) {
	var result struct {
		Data *models.Cart `json:"data"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(req).
		SetResult(&result).
		SetError(&apiEnvelope{}).
		Post("/cart/items")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return result.Data, nil
}

func (c *Commerce) UpdateCartItem(ctx context.Context, token, itemID string, quantity int) (*models.Cart, error) {
	var result struct {
		Data *models.Cart `json:"data"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(models.UpdateItemRequest{Quantity: quantity}).
		SetResult(&result).
		SetError(&apiEnvelope{}).
		Put("/cart/items/" + itemID)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return result.Data, nil
}

func (c *Commerce) RemoveCartItem(ctx context.Context, token, itemID string) (*models.Cart, error) {
	var result struct {
		Data *models.Cart `json:"data"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&result).
		SetError(&apiEnvelope{}).
		Delete("/cart/items/" + itemID)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return result.Data, nil
}

func (c *Commerce) ClearCart(ctx context.Context, token string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetError(&apiEnvelope{}).
		Delete("/cart")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

// --- orders ---

func (c *Commerce) CreateOrder(ctx context.Context, token string, req *models.CheckoutRequest) (*models.Order, error) {
	var result struct {
		Data *models.Order `json:"data"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(req).
		SetResult(&result).
		SetError(&apiEnvelope{}).
		Post("/orders")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return result.Data, nil
}

func (c *Commerce) ListOrders(ctx context.Context, token string) ([]*models.Order, error) {
	var result struct {
		Data []*models.Order `json:"data"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&result).
		SetError(&apiEnvelope{}).
		Get("/orders")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return result.Data, nil
}

func (c *Commerce) GetOrder(ctx context.Context, token, orderID string) (*models.Order, error) {
	var result struct {
		Data *models.Order `json:"data"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&result).
		SetError(&apiEnvelope{}).
		Get("/orders/" + orderID)
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
