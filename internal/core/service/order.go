package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Zephyrodes/farmacia/internal/core/cart"
	"github.com/Zephyrodes/farmacia/internal/core/domain"
	"github.com/Zephyrodes/farmacia/internal/core/ports"
)

// OrderService creates, lists, and confirms orders, and exposes the
// tracking fetch the poller drives.
type OrderService struct {
	api      ports.Requester
	payments ports.PaymentIntents
	log      zerolog.Logger
}

func NewOrderService(api ports.Requester, payments ports.PaymentIntents, log zerolog.Logger) *OrderService {
	return &OrderService{api: api, payments: payments, log: log}
}

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	ProductID int `json:"product_id" validate:"gt=0"`
	Quantity  int `json:"quantity" validate:"gt=0"`
}

// CreateOrderInput is the order creation payload. The backend reprices
// lines and applies promotions; client-side prices are advisory only.
type CreateOrderInput struct {
	AddressID int              `json:"address_id" validate:"gt=0"`
	Items     []OrderItemInput `json:"items" validate:"min=1,dive"`
}

// Create submits a new order. idempotencyKey guards against duplicate
// submissions; pass "" to skip the header.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput, idempotencyKey string) (*domain.OrderReceipt, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}

	var extra http.Header
	if idempotencyKey != "" {
		extra = http.Header{"Idempotency-Key": []string{idempotencyKey}}
	}

	var out domain.OrderReceipt
	if err := s.api.Do(ctx, http.MethodPost, "/orders/", in, &out, extra); err != nil {
		s.log.Warn().Err(err).Msg("order creation rejected")
		return nil, err
	}
	s.log.Info().Int("order_id", out.OrderID).Float64("total", out.Total).Msg("order created")
	return &out, nil
}

// List returns the caller's orders; admins and warehouse staff see all of
// them. The filtering happens server-side off the bearer token.
func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := s.api.Do(ctx, http.MethodGet, "/orders/", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *OrderService) Get(ctx context.Context, id int) (*domain.OrderDetail, error) {
	var out domain.OrderDetail
	if err := s.api.Do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", id), nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *OrderService) Update(ctx context.Context, id int, in CreateOrderInput) (*domain.OrderReceipt, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}
	var out domain.OrderReceipt
	if err := s.api.Do(ctx, http.MethodPut, fmt.Sprintf("/orders/%d", id), in, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// Cancel deletes a still-pending order.
func (s *OrderService) Cancel(ctx context.Context, id int) error {
	if err := s.api.Do(ctx, http.MethodDelete, fmt.Sprintf("/orders/%d", id), nil, nil, nil); err != nil {
		return err
	}
	s.log.Info().Int("order_id", id).Msg("order cancelled")
	return nil
}

// Confirm marks the order paid; the backend writes the financial and stock
// ledger entries.
func (s *OrderService) Confirm(ctx context.Context, id int) error {
	if err := s.api.Do(ctx, http.MethodPost, fmt.Sprintf("/orders/%d/confirm", id), nil, nil, nil); err != nil {
		return err
	}
	s.log.Info().Int("order_id", id).Msg("order confirmed")
	return nil
}

// Tracking fetches one snapshot of a paid order's simulated delivery.
// The tracking view polls this through a tracking.Poller.
func (s *OrderService) Tracking(ctx context.Context, orderID int) (*domain.TrackingInfo, error) {
	var out domain.TrackingInfo
	if err := s.api.Do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d/tracking", orderID), nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// Checkout turns the cart into a paid order: create the order, open a
// payment intent, confirm. The cart is cleared only when the whole sequence
// succeeds; on any failure it is left intact so the user can retry.
func (s *OrderService) Checkout(ctx context.Context, c *cart.Store, addressID int) (*domain.OrderReceipt, error) {
	lines := c.Items()
	in := CreateOrderInput{AddressID: addressID, Items: make([]OrderItemInput, 0, len(lines))}
	for _, line := range lines {
		in.Items = append(in.Items, OrderItemInput{ProductID: line.ProductID, Quantity: line.Quantity})
	}

	receipt, err := s.Create(ctx, in, uuid.NewString())
	if err != nil {
		return nil, err
	}

	if _, err := s.payments.CreateIntent(ctx, receipt.OrderID); err != nil {
		return nil, fmt.Errorf("checkout order %d: %w", receipt.OrderID, err)
	}
	if err := s.Confirm(ctx, receipt.OrderID); err != nil {
		return nil, fmt.Errorf("checkout order %d: %w", receipt.OrderID, err)
	}

	c.Clear()
	s.log.Info().Int("order_id", receipt.OrderID).Msg("checkout complete, cart cleared")
	return receipt, nil
}
