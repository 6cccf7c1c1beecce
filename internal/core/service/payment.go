package service

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Zephyrodes/farmacia/internal/core/ports"
)

// PaymentService opens processor payment intents. Implements
// ports.PaymentIntents for the checkout orchestration.
type PaymentService struct {
	api ports.Requester
	log zerolog.Logger
}

var _ ports.PaymentIntents = (*PaymentService)(nil)

func NewPaymentService(api ports.Requester, log zerolog.Logger) *PaymentService {
	return &PaymentService{api: api, log: log}
}

type createPaymentRequest struct {
	OrderID int `json:"order_id"`
}

type createPaymentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// CreateIntent opens a payment intent for the order and returns the client
// secret the payment widget consumes. Amounts are computed server-side.
func (s *PaymentService) CreateIntent(ctx context.Context, orderID int) (string, error) {
	var out createPaymentResponse
	if err := s.api.Do(ctx, http.MethodPost, "/create-payment-intent", createPaymentRequest{OrderID: orderID}, &out, nil); err != nil {
		return "", err
	}
	s.log.Info().Int("order_id", orderID).Msg("payment intent created")
	return out.ClientSecret, nil
}
