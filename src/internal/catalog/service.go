package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"lubritec-storefront-svc/src/internal/cache"
	"lubritec-storefront-svc/src/internal/config"
	"lubritec-storefront-svc/src/internal/models"
)

// API is the slice of the commerce client the catalog needs.
type API interface {
	ListProducts(ctx context.Context) ([]*models.Product, error)
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
}

type Service interface {
	ListProducts(ctx context.Context, req *models.ProductListRequest) (*models.ProductListResponse, error)
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
}

type service struct {
	api   API
	cache cache.Service
	cfg   *config.CatalogConfig
}

func NewService(api API, cacheService cache.Service, cfg *config.Configuration) Service {
	return &service{
		api:   api,
		cache: cacheService,
		cfg:   &cfg.Catalog,
	}
}

// ListProducts filters and paginates over the full catalog. The
// remote API has no filter parameters, so the whole list is fetched
// (cache first) and sliced here.
func (s *service) ListProducts(ctx context.Context, req *models.ProductListRequest) (*models.ProductListResponse, error) {
	products, err := s.fullCatalog(ctx)
	if err != nil {
		return nil, err
	}

	filtered := filterProducts(products, req)

	page, limit := s.normalizePaging(req.Page, req.Limit)
	totalCount := len(filtered)
	totalPages := (totalCount + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (page - 1) * limit
	if start > totalCount {
		start = totalCount
	}
	end := start + limit
	if end > totalCount {
		end = totalCount
	}

	return &models.ProductListResponse{
		Products:   filtered[start:end],
		TotalCount: totalCount,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func (s *service) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	// Serve from the cached catalog when possible; a stale price for
	// a few minutes beats a remote round-trip per detail view.
	if s.cache != nil {
		if products, err := s.cache.GetCatalog(ctx); err == nil && products != nil {
			for _, p := range products {
				if p.ID == productID {
					return p, nil
				}
			}
		}
	}
	return s.api.GetProduct(ctx, productID)
}

func (s *service) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.api.ListCategories(ctx)
}

func (s *service) fullCatalog(ctx context.Context) ([]*models.Product, error) {
	if s.cache != nil {
		if products, err := s.cache.GetCatalog(ctx); err == nil && products != nil {
			return products, nil
		}
	}

	products, err := s.api.ListProducts(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch catalog from commerce API")
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SaveCatalog(ctx, products); err != nil {
			logrus.WithError(err).Warn("Failed to cache catalog")
		}
	}
	return products, nil
}

func (s *service) normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = s.cfg.DefaultPageSize
	}
	if s.cfg.MaxPageSize > 0 && limit > s.cfg.MaxPageSize {
		limit = s.cfg.MaxPageSize
	}
	// Holds even with a zeroed config; page math divides by limit.
	if limit < 1 {
		limit = 1
	}
	return page, limit
}

func filterProducts(products []*models.Product, req *models.ProductListRequest) []*models.Product {
	search := strings.ToLower(strings.TrimSpace(req.Search))
	brand := strings.ToLower(strings.TrimSpace(req.Brand))

	filtered := make([]*models.Product, 0, len(products))
	for _, p := range products {
		if !p.Active {
			continue
		}
		if req.CategoryID != "" && p.CategoryID != req.CategoryID {
			continue
		}
		if brand != "" && strings.ToLower(p.Brand) != brand {
			continue
		}
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		filtered = append(filtered, p)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Name < filtered[j].Name
	})
	return filtered
}

func matchesSearch(p *models.Product, search string) bool {
	return strings.Contains(strings.ToLower(p.Name), search) ||
		strings.Contains(strings.ToLower(p.Description), search) ||
		strings.Contains(strings.ToLower(p.Brand), search)
}
