package cart

import (
	"context"
	"errors"
	"testing"

	"lubritec-storefront-svc/src/internal/models"
)

type stubAPI struct {
	cart    *models.Cart
	err     error
	cleared int
}

func (s *stubAPI) GetCart(ctx context.Context, token string) (*models.Cart, error) {
	return s.cart, s.err
}

func (s *stubAPI) AddCartItem(ctx context.Context, token string, req *models.AddItemRequest) (*models.Cart, error) {
	return s.cart, s.err
}

func (s *stubAPI) UpdateCartItem(ctx context.Context, token, itemID string, quantity int) (*models.Cart, error) {
	return s.cart, s.err
}

func (s *stubAPI) RemoveCartItem(ctx context.Context, token, itemID string) (*models.Cart, error) {
	return s.cart, s.err
}

func (s *stubAPI) ClearCart(ctx context.Context, token string) error {
	s.cleared++
	return s.err
}

// stubCache implements only the cart snapshot methods with real
// behavior; the rest exist to satisfy the interface.
type stubCache struct {
	snapshots map[string]*models.Cart
	saveErr   error
}

func newStubCache() *stubCache {
	return &stubCache{snapshots: make(map[string]*models.Cart)}
}

func (s *stubCache) GetCatalog(ctx context.Context) ([]*models.Product, error) { return nil, nil }
func (s *stubCache) SaveCatalog(ctx context.Context, products []*models.Product) error {
	return nil
}
func (s *stubCache) InvalidateCatalog(ctx context.Context) error { return nil }

func (s *stubCache) GetActiveSession(ctx context.Context, key string) (*models.Session, error) {
	return nil, nil
}
func (s *stubCache) CacheActiveSession(ctx context.Context, key string, session *models.Session) error {
	return nil
}
func (s *stubCache) DropSession(ctx context.Context, key string) error { return nil }

func (s *stubCache) GetCartSnapshot(ctx context.Context, userID string) (*models.Cart, error) {
	cart, ok := s.snapshots[userID]
	if !ok {
		return nil, nil
	}
	return cart, nil
}

func (s *stubCache) SaveCartSnapshot(ctx context.Context, userID string, cart *models.Cart) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.snapshots[userID] = cart
	return nil
}

func (s *stubCache) DropCartSnapshot(ctx context.Context, userID string) error {
	delete(s.snapshots, userID)
	return nil
}

func sampleCart() *models.Cart {
	return &models.Cart{
		Items: []models.CartItem{
			{ID: "i1", ProductID: "p1", Quantity: 2, PriceCents: 1500},
		},
	}
}

func TestGetSavesSnapshot(t *testing.T) {
	cache := newStubCache()
	svc := NewService(&stubAPI{cart: sampleCart()}, cache)

	cart, err := svc.Get(context.Background(), "tok", "u1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if cart.ItemCount() != 2 {
		t.Errorf("item count = %d, want 2", cart.ItemCount())
	}
	if cache.snapshots["u1"] == nil {
		t.Error("snapshot not saved on successful read")
	}
}

func TestGetFallsBackToSnapshot(t *testing.T) {
	cache := newStubCache()
	cache.snapshots["u1"] = sampleCart()
	svc := NewService(&stubAPI{err: errors.New("commerce api unreachable")}, cache)

	cart, err := svc.Get(context.Background(), "tok", "u1")
	if err != nil {
		t.Fatalf("Get did not fall back: %v", err)
	}
	if cart.ItemCount() != 2 {
		t.Errorf("item count = %d, want snapshot contents", cart.ItemCount())
	}
}

func TestGetPropagatesErrorWithoutSnapshot(t *testing.T) {
	remoteDown := errors.New("commerce api unreachable")

	tests := []struct {
		name   string
		cache  *stubCache
		userID string
	}{
		{name: "no snapshot cached", cache: newStubCache(), userID: "u1"},
		{name: "anonymous request", cache: newStubCache(), userID: ""},
		{name: "no cache wired", cache: nil, userID: "u1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var svc Service
			if tt.cache == nil {
				svc = NewService(&stubAPI{err: remoteDown}, nil)
			} else {
				svc = NewService(&stubAPI{err: remoteDown}, tt.cache)
			}

			if _, err := svc.Get(context.Background(), "tok", tt.userID); !errors.Is(err, remoteDown) {
				t.Errorf("err = %v, want the remote error", err)
			}
		})
	}
}

func TestAddItemUpdatesSnapshot(t *testing.T) {
	cache := newStubCache()
	svc := NewService(&stubAPI{cart: sampleCart()}, cache)

	cart, err := svc.AddItem(context.Background(), "tok", "u1", &models.AddItemRequest{ProductID: "p1", Quantity: 2})
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if cart.SubtotalCents() != 3000 {
		t.Errorf("subtotal = %d, want 3000", cart.SubtotalCents())
	}
	if cache.snapshots["u1"] == nil {
		t.Error("snapshot not refreshed after write")
	}
}

func TestWriteSurvivesSnapshotFailure(t *testing.T) {
	cache := newStubCache()
	cache.saveErr = errors.New("redis down")
	svc := NewService(&stubAPI{cart: sampleCart()}, cache)

	if _, err := svc.AddItem(context.Background(), "tok", "u1", &models.AddItemRequest{ProductID: "p1", Quantity: 1}); err != nil {
		t.Errorf("AddItem failed on snapshot error: %v", err)
	}
}

func TestClearHitsRemote(t *testing.T) {
	api := &stubAPI{}
	svc := NewService(api, nil)

	if err := svc.Clear(context.Background(), "tok"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if api.cleared != 1 {
		t.Errorf("remote clear called %d times, want 1", api.cleared)
	}
}
