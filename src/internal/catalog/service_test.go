package catalog

import (
	"context"
	"errors"
	"testing"

	"lubritec-storefront-svc/src/internal/config"
	"lubritec-storefront-svc/src/internal/models"
)

type stubAPI struct {
	products []*models.Product
	err      error
	calls    int
}

func (s *stubAPI) ListProducts(ctx context.Context) ([]*models.Product, error) {
	s.calls++
	return s.products, s.err
}

func (s *stubAPI) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	for _, p := range s.products {
		if p.ID == productID {
			return p, nil
		}
	}
	return nil, models.ErrProductNotFound
}

func (s *stubAPI) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return nil, s.err
}

func sampleCatalog() []*models.Product {
	return []*models.Product{
		{ID: "1", Name: "Aceite Motor 10W-40", Brand: "Lubrimax", CategoryID: "motor", Active: true},
		{ID: "2", Name: "Grasa Multiuso", Brand: "Lubrimax", CategoryID: "grasas", Active: true},
		{ID: "3", Name: "Aceite Hidráulico", Brand: "HidroPro", CategoryID: "hidraulica", Active: true},
		{ID: "4", Name: "Aceite Motor 5W-30", Brand: "HidroPro", CategoryID: "motor", Active: true},
		{ID: "5", Name: "Descontinuado", Brand: "Lubrimax", CategoryID: "motor", Active: false},
	}
}

func newTestService(api API) Service {
	cfg := &config.Configuration{
		Catalog: config.CatalogConfig{DefaultPageSize: 10, MaxPageSize: 50},
	}
	return NewService(api, nil, cfg)
}

func TestListProductsFilters(t *testing.T) {
	tests := []struct {
		name    string
		req     *models.ProductListRequest
		wantIDs []string
	}{
		{
			name:    "no filters hides inactive and sorts by name",
			req:     &models.ProductListRequest{},
			wantIDs: []string{"3", "1", "4", "2"},
		},
		{
			name:    "by category",
			req:     &models.ProductListRequest{CategoryID: "motor"},
			wantIDs: []string{"1", "4"},
		},
		{
			name:    "by brand case-insensitive",
			req:     &models.ProductListRequest{Brand: "lubrimax"},
			wantIDs: []string{"1", "2"},
		},
		{
			name:    "search on the name",
			req:     &models.ProductListRequest{Search: "motor"},
			wantIDs: []string{"1", "4"},
		},
		{
			name:    "search on the brand",
			req:     &models.ProductListRequest{Search: "hidropro"},
			wantIDs: []string{"3", "4"},
		},
		{
			name:    "brand and category combined",
			req:     &models.ProductListRequest{Brand: "HidroPro", CategoryID: "motor"},
			wantIDs: []string{"4"},
		},
		{
			name:    "no match",
			req:     &models.ProductListRequest{Search: "anticongelante"},
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&stubAPI{products: sampleCatalog()})

			resp, err := svc.ListProducts(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("ListProducts failed: %v", err)
			}

			gotIDs := make([]string, 0, len(resp.Products))
			for _, p := range resp.Products {
				gotIDs = append(gotIDs, p.ID)
			}
			if len(gotIDs) != len(tt.wantIDs) {
				t.Fatalf("got %v, want %v", gotIDs, tt.wantIDs)
			}
			for i := range gotIDs {
				if gotIDs[i] != tt.wantIDs[i] {
					t.Fatalf("got %v, want %v", gotIDs, tt.wantIDs)
				}
			}
		})
	}
}

func TestListProductsPagination(t *testing.T) {
	tests := []struct {
		name           string
		page, limit    int
		wantCount      int
		wantPage       int
		wantTotalPages int
	}{
		{name: "first page", page: 1, limit: 3, wantCount: 3, wantPage: 1, wantTotalPages: 2},
		{name: "last partial page", page: 2, limit: 3, wantCount: 1, wantPage: 2, wantTotalPages: 2},
		{name: "page beyond the end", page: 9, limit: 3, wantCount: 0, wantPage: 9, wantTotalPages: 2},
		{name: "zero page defaults to one", page: 0, limit: 3, wantCount: 3, wantPage: 1, wantTotalPages: 2},
		{name: "zero limit uses default size", page: 1, limit: 0, wantCount: 4, wantPage: 1, wantTotalPages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&stubAPI{products: sampleCatalog()})

			resp, err := svc.ListProducts(context.Background(), &models.ProductListRequest{Page: tt.page, Limit: tt.limit})
			if err != nil {
				t.Fatalf("ListProducts failed: %v", err)
			}
			if len(resp.Products) != tt.wantCount {
				t.Errorf("len = %d, want %d", len(resp.Products), tt.wantCount)
			}
			if resp.Page != tt.wantPage {
				t.Errorf("page = %d, want %d", resp.Page, tt.wantPage)
			}
			if resp.TotalPages != tt.wantTotalPages {
				t.Errorf("total pages = %d, want %d", resp.TotalPages, tt.wantTotalPages)
			}
			if resp.TotalCount != 4 {
				t.Errorf("total count = %d, want 4", resp.TotalCount)
			}
		})
	}
}

func TestListProductsCapsPageSize(t *testing.T) {
	cfg := &config.Configuration{
		Catalog: config.CatalogConfig{DefaultPageSize: 10, MaxPageSize: 2},
	}
	svc := NewService(&stubAPI{products: sampleCatalog()}, nil, cfg)

	resp, err := svc.ListProducts(context.Background(), &models.ProductListRequest{Limit: 100})
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if resp.Limit != 2 {
		t.Errorf("limit = %d, want capped at 2", resp.Limit)
	}
	if len(resp.Products) != 2 {
		t.Errorf("len = %d, want 2", len(resp.Products))
	}
}

func TestListProductsWithZeroedPagingConfig(t *testing.T) {
	svc := NewService(&stubAPI{products: sampleCatalog()}, nil, &config.Configuration{})

	resp, err := svc.ListProducts(context.Background(), &models.ProductListRequest{})
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if resp.Limit < 1 {
		t.Fatalf("limit = %d, want at least 1", resp.Limit)
	}
	if resp.TotalPages < 1 {
		t.Errorf("total pages = %d, want at least 1", resp.TotalPages)
	}
	if len(resp.Products) != resp.Limit && len(resp.Products) != resp.TotalCount {
		t.Errorf("got %d products with limit %d and total %d", len(resp.Products), resp.Limit, resp.TotalCount)
	}
}

func TestListProductsRemoteFailure(t *testing.T) {
	remoteDown := errors.New("commerce api unreachable")
	svc := newTestService(&stubAPI{err: remoteDown})

	if _, err := svc.ListProducts(context.Background(), &models.ProductListRequest{}); !errors.Is(err, remoteDown) {
		t.Errorf("err = %v, want the remote error", err)
	}
}

func TestGetProductFallsThroughToAPI(t *testing.T) {
	svc := newTestService(&stubAPI{products: sampleCatalog()})

	p, err := svc.GetProduct(context.Background(), "2")
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if p.Name != "Grasa Multiuso" {
		t.Errorf("got %q", p.Name)
	}

	if _, err := svc.GetProduct(context.Background(), "missing"); !errors.Is(err, models.ErrProductNotFound) {
		t.Errorf("err = %v, want ErrProductNotFound", err)
	}
}
