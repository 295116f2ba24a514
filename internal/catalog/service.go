package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/bakeshop-mx/storefront-client/internal/gateway"
	pkgerrors "github.com/bakeshop-mx/storefront-client/pkg/errors"
	"github.com/bakeshop-mx/storefront-client/pkg/logger"
)

// ServiceParams names the dependencies of the catalog service.
type ServiceParams struct {
	Gateway gateway.Gateway
	Logger  *logger.Logger
}

// Service mirrors the product catalog. All operations are reads and degrade
// to empty results when the backend cannot be reached, so browsing surfaces
// render an empty catalog instead of failing.
type Service struct {
	gw   gateway.Gateway
	logg *logger.Logger

	mu         sync.RWMutex
	products   []Product
	categories []Category
}

// NewService builds a catalog service with empty caches.
func NewService(params ServiceParams) (*Service, error) {
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnknown, "gateway required")
	}
	return &Service{gw: params.Gateway, logg: params.Logger}, nil
}

// ListProducts fetches the catalog, optionally narrowed by filters, and
// replaces the cached listing with the result.
func (s *Service) ListProducts(ctx context.Context, filters Filters) ([]Product, error) {
	query := url.Values{}
	if filters.CategoryID != nil {
		query.Set("categoria_id", strconv.FormatInt(*filters.CategoryID, 10))
	}
	if filters.Search != "" {
		query.Set("search", filters.Search)
	}
	if filters.Limit > 0 {
		query.Set("limit", strconv.Itoa(filters.Limit))
	}
	if filters.Offset > 0 {
		query.Set("offset", strconv.Itoa(filters.Offset))
	}

	resp, err := s.gw.Do(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   "products",
		Query:  query,
	})
	if err != nil {
		if s.logg != nil {
			s.logg.Debug(ctx, "product listing degraded to empty: "+err.Error())
		}
		s.replaceProducts(nil)
		return nil, nil
	}

	var products []Product
	if err := resp.Decode(&products); err != nil {
		s.replaceProducts(nil)
		return nil, nil
	}
	s.replaceProducts(products)
	return products, nil
}

// GetProduct fetches a single product. A missing or unreachable product
// comes back as nil without an error.
func (s *Service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	resp, err := s.gw.Do(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("products/%d", id),
	})
	if err != nil {
		if s.logg != nil {
			s.logg.Debug(ctx, "product fetch degraded to nil: "+err.Error())
		}
		return nil, nil
	}

	var product Product
	if err := resp.Decode(&product); err != nil {
		return nil, nil
	}
	return &product, nil
}

// ListCategories fetches the category names and assigns positional ids,
// starting at 1, for display purposes.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	resp, err := s.gw.Do(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   "categories",
	})
	if err != nil {
		if s.logg != nil {
			s.logg.Debug(ctx, "category listing degraded to empty: "+err.Error())
		}
		s.replaceCategories(nil)
		return nil, nil
	}

	var names []string
	if err := resp.Decode(&names); err != nil {
		s.replaceCategories(nil)
		return nil, nil
	}

	categories := make([]Category, 0, len(names))
	for i, name := range names {
		categories = append(categories, Category{ID: int64(i + 1), Name: name})
	}
	s.replaceCategories(categories)
	return categories, nil
}

// Products returns the cached listing from the last successful fetch.
func (s *Service) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Categories returns the cached categories from the last successful fetch.
func (s *Service) Categories() []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Category, len(s.categories))
	copy(out, s.categories)
	return out
}

func (s *Service) replaceProducts(products []Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
}

func (s *Service) replaceCategories(categories []Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = categories
}
