package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Zephyrodes/farmacia/internal/core/domain"
	"github.com/Zephyrodes/farmacia/internal/core/ports"
)

// PromotionService manages discounts and bundle offers.
type PromotionService struct {
	api ports.Requester
	log zerolog.Logger
}

func NewPromotionService(api ports.Requester, log zerolog.Logger) *PromotionService {
	return &PromotionService{api: api, log: log}
}

// PromotionInput creates or updates a promotion. Exactly the fields that
// match Type are meaningful; the backend ignores the rest.
type PromotionInput struct {
	Type            string    `json:"type" validate:"required,oneof=oferta promocion"`
	Title           string    `json:"title" validate:"required"`
	Description     *string   `json:"description,omitempty"`
	DiscountPercent *float64  `json:"discount_percent,omitempty"`
	FixedDiscount   *float64  `json:"fixed_discount,omitempty"`
	OfferQuantity   *int      `json:"offer_quantity,omitempty"`
	OfferPay        *int      `json:"offer_pay,omitempty"`
	ProductID       *int      `json:"product_id,omitempty"`
	CategoryID      *int      `json:"category_id,omitempty"`
	StartDate       time.Time `json:"start_date" validate:"required"`
	EndDate         time.Time `json:"end_date" validate:"required"`
}

func (s *PromotionService) Create(ctx context.Context, in PromotionInput) (*domain.Promotion, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}
	var out domain.Promotion
	if err := s.api.Do(ctx, http.MethodPost, "/promotions/", in, &out, nil); err != nil {
		return nil, err
	}
	s.log.Info().Str("title", in.Title).Str("type", in.Type).Msg("promotion created")
	return &out, nil
}

// ListActive returns the promotions currently in their validity window.
func (s *PromotionService) ListActive(ctx context.Context) ([]domain.Promotion, error) {
	var out []domain.Promotion
	if err := s.api.Do(ctx, http.MethodGet, "/promotions/", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PromotionService) Update(ctx context.Context, id int, in PromotionInput) (*domain.Promotion, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}
	var out domain.Promotion
	if err := s.api.Do(ctx, http.MethodPut, fmt.Sprintf("/promotions/%d", id), in, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PromotionService) Delete(ctx context.Context, id int) error {
	return s.api.Do(ctx, http.MethodDelete, fmt.Sprintf("/promotions/%d", id), nil, nil, nil)
}
