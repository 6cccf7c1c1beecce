package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Zephyrodes/farmacia/internal/core/domain"
	"github.com/Zephyrodes/farmacia/internal/core/ports"
)

// UserService covers the back-office user management screens plus the
// profile endpoint.
type UserService struct {
	api ports.Requester
	log zerolog.Logger
}

func NewUserService(api ports.Requester, log zerolog.Logger) *UserService {
	return &UserService{api: api, log: log}
}

// Me resolves the profile behind the current token. The session resolver is
// the primary caller; views use the session snapshot instead.
func (s *UserService) Me(ctx context.Context) (*domain.User, error) {
	var out domain.User
	if err := s.api.Do(ctx, http.MethodGet, "/users/me", nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserInput creates or updates an account. Admin-only on the backend.
type UserInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=4"`
	Role     string `json:"role" validate:"required,oneof=admin almacenista cliente"`
}

func (s *UserService) Register(ctx context.Context, in UserInput) error {
	if err := checkInput(in); err != nil {
		return err
	}
	if err := s.api.Do(ctx, http.MethodPost, "/register", in, nil, nil); err != nil {
		return err
	}
	s.log.Info().Str("username", in.Username).Str("role", in.Role).Msg("user registered")
	return nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	if err := s.api.Do(ctx, http.MethodGet, "/users/", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, id int) (*domain.User, error) {
	var out domain.User
	if err := s.api.Do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) Update(ctx context.Context, id int, in UserInput) error {
	if err := checkInput(in); err != nil {
		return err
	}
	return s.api.Do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), in, nil, nil)
}

func (s *UserService) Delete(ctx context.Context, id int) error {
	if err := s.api.Do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil, nil); err != nil {
		return err
	}
	s.log.Info().Int("user_id", id).Msg("user deleted")
	return nil
}
