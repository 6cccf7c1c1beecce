package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Zephyrodes/farmacia/internal/core/domain"
	"github.com/Zephyrodes/farmacia/internal/core/ports"
)

// AddressService manages the current user's delivery addresses.
type AddressService struct {
	api ports.Requester
	log zerolog.Logger
}

func NewAddressService(api ports.Requester, log zerolog.Logger) *AddressService {
	return &AddressService{api: api, log: log}
}

// AddressInput is a new delivery destination picked on the map.
type AddressInput struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

func (s *AddressService) Create(ctx context.Context, in AddressInput) (*domain.Address, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}
	var out domain.Address
	if err := s.api.Do(ctx, http.MethodPost, "/addresses/", in, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AddressService) List(ctx context.Context) ([]domain.Address, error) {
	var out []domain.Address
	if err := s.api.Do(ctx, http.MethodGet, "/addresses/", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *AddressService) Delete(ctx context.Context, id int) error {
	return s.api.Do(ctx, http.MethodDelete, fmt.Sprintf("/addresses/%d", id), nil, nil, nil)
}
