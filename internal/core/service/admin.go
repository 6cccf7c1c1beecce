package service

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Zephyrodes/farmacia/internal/core/domain"
	"github.com/Zephyrodes/farmacia/internal/core/ports"
)

// AdminService feeds the back-office dashboard and the two ledgers.
type AdminService struct {
	api ports.Requester
	log zerolog.Logger
}

func NewAdminService(api ports.Requester, log zerolog.Logger) *AdminService {
	return &AdminService{api: api, log: log}
}

// Summary returns today's dashboard numbers.
func (s *AdminService) Summary(ctx context.Context) (*domain.AdminSummary, error) {
	var out domain.AdminSummary
	if err := s.api.Do(ctx, http.MethodGet, "/admin/summary", nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// FinancialMovements lists the money ledger.
func (s *AdminService) FinancialMovements(ctx context.Context) ([]domain.FinancialMovement, error) {
	var out []domain.FinancialMovement
	if err := s.api.Do(ctx, http.MethodGet, "/financial_movements/", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// StockMovements lists the inventory ledger.
func (s *AdminService) StockMovements(ctx context.Context) ([]domain.StockMovement, error) {
	var out []domain.StockMovement
	if err := s.api.Do(ctx, http.MethodGet, "/stock_movements/", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}
