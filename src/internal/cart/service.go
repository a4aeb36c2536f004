package cart

import (
	"context"

	"github.com/sirupsen/logrus"

	"lubritec-storefront-svc/src/internal/cache"
	"lubritec-storefront-svc/src/internal/models"
)

// API is the slice of the commerce client the cart needs.
type API interface {
	GetCart(ctx context.Context, token string) (*models.Cart, error)
	AddCartItem(ctx context.Context, token string, req *models.AddItemRequest) (*models.Cart, error)
	UpdateCartItem(ctx context.Context, token, itemID string, quantity int) (*models.Cart, error)
	RemoveCartItem(ctx context.Context, token, itemID string) (*models.Cart, error)
	ClearCart(ctx context.Context, token string) error
}

// Service synchronizes the user's cart with the remote cart API and
// keeps a redis snapshot as a read fallback. The remote API is the
// source of truth; the snapshot only bridges its outages.
type Service interface {
	Get(ctx context.Context, token, userID string) (*models.Cart, error)
	AddItem(ctx context.Context, token, userID string, req *models.AddItemRequest) (*models.Cart, error)
	UpdateItem(ctx context.Context, token, userID, itemID string, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, token, userID, itemID string) (*models.Cart, error)
	Clear(ctx context.Context, token string) error
}

type service struct {
	api   API
	cache cache.Service
}

func NewService(api API, cacheService cache.Service) Service {
	return &service{
		api:   api,
		cache: cacheService,
	}
}

func (s *service) Get(ctx context.Context, token, userID string) (*models.Cart, error) {
	cart, err := s.api.GetCart(ctx, token)
	if err != nil {
		// Fall back to the last snapshot so the cart badge keeps
		// working through a commerce API hiccup.
		if s.cache != nil && userID != "" {
			if snapshot, cacheErr := s.cache.GetCartSnapshot(ctx, userID); cacheErr == nil && snapshot != nil {
				logrus.WithError(err).WithField("user_id", userID).Warn("Serving cart from snapshot")
				return snapshot, nil
			}
		}
		return nil, err
	}

	s.saveSnapshot(ctx, userID, cart)
	return cart, nil
}

func (s *service) AddItem(ctx context.Context, token, userID string, req *models.AddItemRequest) (*models.Cart, error) {
	cart, err := s.api.AddCartItem(ctx, token, req)
	if err != nil {
		return nil, err
	}
	s.saveSnapshot(ctx, userID, cart)
	return cart, nil
}

func (s *service) UpdateItem(ctx context.Context, token, userID, itemID string, quantity int) (*models.Cart, error) {
	cart, err := s.api.UpdateCartItem(ctx, token, itemID, quantity)
	if err != nil {
		return nil, err
	}
	s.saveSnapshot(ctx, userID, cart)
	return cart, nil
}

func (s *service) RemoveItem(ctx context.Context, token, userID, itemID string) (*models.Cart, error) {
	cart, err := s.api.RemoveCartItem(ctx, token, itemID)
	if err != nil {
		return nil, err
	}
	s.saveSnapshot(ctx, userID, cart)
	return cart, nil
}

// Clear empties the remote cart. It also satisfies the session
// manager's CartClearer, which calls it during logout with only the
// token at hand; snapshot cleanup there is best-effort via TTL.
func (s *service) Clear(ctx context.Context, token string) error {
	return s.api.ClearCart(ctx, token)
}

func (s *service) saveSnapshot(ctx context.Context, userID string, cart *models.Cart) {
	if s.cache == nil || userID == "" || cart == nil {
		return
	}
	if err := s.cache.SaveCartSnapshot(ctx, userID, cart); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Failed to save cart snapshot")
	}
}
