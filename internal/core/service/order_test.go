package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Zephyrodes/farmacia/internal/api"
	"github.com/Zephyrodes/farmacia/internal/apitest"
	"github.com/Zephyrodes/farmacia/internal/core/cart"
	"github.com/Zephyrodes/farmacia/internal/core/domain"
)

func newOrderService(c *api.Client) *OrderService {
	return NewOrderService(c, NewPaymentService(c, zerolog.Nop()), zerolog.Nop())
}

func TestOrderService_Create(t *testing.T) {
	srv := startServer(t)
	orders := newOrderService(clientFor(t, srv, apitest.ClientUser))
	ctx := context.Background()

	receipt, err := orders.Create(ctx, CreateOrderInput{
		AddressID: 1,
		Items: []OrderItemInput{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	}, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// 2 × 4500 plus one discounted vitamin: 12000 − 10% = 10800.
	if receipt.Total != 19800 {
		t.Fatalf("Total = %v, want 19800", receipt.Total)
	}
	if len(receipt.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(receipt.Items))
	}
	vitamins := receipt.Items[1]
	if vitamins.DiscountApplied != 1200 || vitamins.Promotion == nil {
		t.Fatalf("expected applied discount on line: %+v", vitamins)
	}
	// Gamification echo: 19800 // 1000 = 19 points on level 1.
	if receipt.UserLevel != 1 || receipt.UserPoints != 19 {
		t.Fatalf("level/points = %d/%d, want 1/19", receipt.UserLevel, receipt.UserPoints)
	}
}

func TestOrderService_CreateValidation(t *testing.T) {
	srv := startServer(t)
	orders := newOrderService(clientFor(t, srv, apitest.ClientUser))
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreateOrderInput
	}{
		{"no items", CreateOrderInput{AddressID: 1}},
		{"missing address", CreateOrderInput{Items: []OrderItemInput{{ProductID: 1, Quantity: 1}}}},
		{"zero quantity", CreateOrderInput{AddressID: 1, Items: []OrderItemInput{{ProductID: 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := orders.Create(ctx, tt.in, ""); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestOrderService_CreateInsufficientStock(t *testing.T) {
	srv := startServer(t)
	orders := newOrderService(clientFor(t, srv, apitest.ClientUser))

	_, err := orders.Create(context.Background(), CreateOrderInput{
		AddressID: 1,
		Items:     []OrderItemInput{{ProductID: 3, Quantity: 1}}, // seeded with zero stock
	}, "")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if msg := api.Message(err, ""); !strings.Contains(msg, "Stock insuficiente") {
		t.Fatalf("expected backend detail, got %q", msg)
	}
}

func TestOrderService_Checkout(t *testing.T) {
	srv := startServer(t)
	orders := newOrderService(clientFor(t, srv, apitest.ClientUser))
	ctx := context.Background()

	basket := cart.NewStore()
	basket.Add(domain.Product{ID: 1, Name: "Acetaminofén 500mg", Price: 4500}, 2)
	basket.Add(domain.Product{ID: 2, Name: "Vitamina C 1g", Price: 12000}, 1)

	receipt, err := orders.Checkout(ctx, basket, 1)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if basket.Len() != 0 {
		t.Fatalf("cart must be cleared after successful checkout, has %d lines", basket.Len())
	}

	detail, err := orders.Get(ctx, receipt.OrderID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if detail.PaymentStatus != domain.PaymentPaid || detail.Status != domain.OrderConfirmed {
		t.Fatalf("order not confirmed after checkout: %+v", detail.Order)
	}

	// A paid order can be tracked; the first scripted status is preparing.
	info, err := orders.Tracking(ctx, receipt.OrderID)
	if err != nil {
		t.Fatalf("Tracking: %v", err)
	}
	if info.DeliveryStatus != domain.DeliveryPreparing {
		t.Fatalf("DeliveryStatus = %q", info.DeliveryStatus)
	}
}

func TestOrderService_CheckoutFailureKeepsCart(t *testing.T) {
	srv := startServer(t)
	orders := newOrderService(clientFor(t, srv, apitest.ClientUser))

	basket := cart.NewStore()
	basket.Add(domain.Product{ID: 1, Name: "Acetaminofén 500mg", Price: 4500}, 1)

	// Address 999 does not belong to the client.
	if _, err := orders.Checkout(context.Background(), basket, 999); err == nil {
		t.Fatalf("expected checkout to fail")
	}
	if basket.Len() != 1 {
		t.Fatalf("cart must survive a failed checkout, has %d lines", basket.Len())
	}
}

func TestOrderService_TrackingRequiresPayment(t *testing.T) {
	srv := startServer(t)
	orders := newOrderService(clientFor(t, srv, apitest.ClientUser))
	ctx := context.Background()

	receipt, err := orders.Create(ctx, CreateOrderInput{
		AddressID: 1,
		Items:     []OrderItemInput{{ProductID: 1, Quantity: 1}},
	}, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = orders.Tracking(ctx, receipt.OrderID)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for unpaid order, got %v", err)
	}
}

func TestOrderService_CancelPendingOrder(t *testing.T) {
	srv := startServer(t)
	orders := newOrderService(clientFor(t, srv, apitest.ClientUser))
	ctx := context.Background()

	receipt, err := orders.Create(ctx, CreateOrderInput{
		AddressID: 1,
		Items:     []OrderItemInput{{ProductID: 1, Quantity: 1}},
	}, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := orders.Cancel(ctx, receipt.OrderID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	listed, err := orders.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, ord := range listed {
		if ord.ID == receipt.OrderID {
			t.Fatalf("cancelled order still listed: %+v", ord)
		}
	}

	// Confirmed orders cannot be cancelled.
	receipt, err = orders.Create(ctx, CreateOrderInput{
		AddressID: 1,
		Items:     []OrderItemInput{{ProductID: 1, Quantity: 1}},
	}, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := orders.Confirm(ctx, receipt.OrderID); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if err := orders.Cancel(ctx, receipt.OrderID); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput cancelling a paid order, got %v", err)
	}
}

func TestOrderService_ClientsSeeOnlyTheirOrders(t *testing.T) {
	srv := startServer(t)
	ctx := context.Background()

	asClient := newOrderService(clientFor(t, srv, apitest.ClientUser))
	receipt, err := asClient.Create(ctx, CreateOrderInput{
		AddressID: 1,
		Items:     []OrderItemInput{{ProductID: 1, Quantity: 1}},
	}, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	asAdmin := newOrderService(clientFor(t, srv, apitest.AdminUser))
	adminView, err := asAdmin.List(ctx)
	if err != nil {
		t.Fatalf("admin List: %v", err)
	}
	if len(adminView) != 1 || adminView[0].ID != receipt.OrderID {
		t.Fatalf("admin must see all orders, got %+v", adminView)
	}

	asWarehouse := newOrderService(clientFor(t, srv, apitest.WarehouseUser))
	if _, err := asWarehouse.Get(ctx, receipt.OrderID); err != nil {
		t.Fatalf("staff Get: %v", err)
	}
}

func TestPaymentService_CreateIntent(t *testing.T) {
	srv := startServer(t)
	c := clientFor(t, srv, apitest.ClientUser)
	orders := newOrderService(c)
	payments := NewPaymentService(c, zerolog.Nop())
	ctx := context.Background()

	receipt, err := orders.Create(ctx, CreateOrderInput{
		AddressID: 1,
		Items:     []OrderItemInput{{ProductID: 1, Quantity: 1}},
	}, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	secret, err := payments.CreateIntent(ctx, receipt.OrderID)
	if err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}
	if !strings.HasPrefix(secret, "pi_test_") {
		t.Fatalf("clientSecret = %q", secret)
	}

	if err := orders.Confirm(ctx, receipt.OrderID); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if _, err := payments.CreateIntent(ctx, receipt.OrderID); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for an already-paid order, got %v", err)
	}
}
