// Package service contains one data service per business object. Each one
// is plumbing between a view and the remote API: it validates input, issues
// the request through the shared client, and hands back typed results. All
// loading/error presentation stays with the views.
package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Zephyrodes/farmacia/internal/core/domain"
	"github.com/Zephyrodes/farmacia/internal/core/ports"
)

// CatalogService reads products, categories, and their promotions.
type CatalogService struct {
	api ports.Requester
	log zerolog.Logger
}

func NewCatalogService(api ports.Requester, log zerolog.Logger) *CatalogService {
	return &CatalogService{api: api, log: log}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := s.api.Do(ctx, http.MethodGet, "/products/", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	var out domain.Product
	if err := s.api.Do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := s.api.Do(ctx, http.MethodGet, "/categories/", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// ProductPromotions lists the promotions currently applicable to a product.
func (s *CatalogService) ProductPromotions(ctx context.Context, productID int) ([]domain.Promotion, error) {
	var out []domain.Promotion
	if err := s.api.Do(ctx, http.MethodGet, fmt.Sprintf("/products/%d/promotions", productID), nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// CategoryPromotions lists the promotions currently applicable to a category.
func (s *CatalogService) CategoryPromotions(ctx context.Context, categoryID int) ([]domain.Promotion, error) {
	var out []domain.Promotion
	if err := s.api.Do(ctx, http.MethodGet, fmt.Sprintf("/categories/%d/promotions", categoryID), nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// ProductInput creates or updates a catalog entry. Back-office only.
type ProductInput struct {
	Name          string `json:"name" validate:"required"`
	Stock         int    `json:"stock" validate:"gte=0"`
	Price         int    `json:"price" validate:"gt=0"`
	ImageFilename string `json:"image_filename,omitempty"`
	CategoryID    int    `json:"category_id" validate:"gt=0"`
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}
	var out domain.Product
	if err := s.api.Do(ctx, http.MethodPost, "/products/", in, &out, nil); err != nil {
		return nil, err
	}
	s.log.Info().Str("name", in.Name).Msg("product created")
	return &out, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id int, in ProductInput) (*domain.Product, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}
	var out domain.Product
	if err := s.api.Do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), in, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int) error {
	return s.api.Do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil, nil)
}

// DeleteOutOfStock bulk-removes every product with zero stock.
func (s *CatalogService) DeleteOutOfStock(ctx context.Context) error {
	return s.api.Do(ctx, http.MethodDelete, "/products/out-of-stock", nil, nil, nil)
}

// ComparePrice asks the backend to scrape a competitor store for the
// current street price of a product. Slow; the backend drives a headless
// browser.
func (s *CatalogService) ComparePrice(ctx context.Context, productID int) (*domain.PriceComparison, error) {
	var out domain.PriceComparison
	if err := s.api.Do(ctx, http.MethodGet, fmt.Sprintf("/products/%d/scrape-price", productID), nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}
