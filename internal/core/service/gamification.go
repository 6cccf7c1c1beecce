package service

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Zephyrodes/farmacia/internal/core/domain"
	"github.com/Zephyrodes/farmacia/internal/core/ports"
)

// GamificationService feeds the rewards panel: level, rank, and weekly
// missions.
type GamificationService struct {
	api ports.Requester
	log zerolog.Logger
}

func NewGamificationService(api ports.Requester, log zerolog.Logger) *GamificationService {
	return &GamificationService{api: api, log: log}
}

// MyProgress returns the current user's level, points, and rank.
func (s *GamificationService) MyProgress(ctx context.Context) (*domain.Gamification, error) {
	var out domain.Gamification
	if err := s.api.Do(ctx, http.MethodGet, "/users/me/gamification", nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// ActiveMissions lists this week's missions without completion state.
func (s *GamificationService) ActiveMissions(ctx context.Context) ([]domain.Mission, error) {
	var out []domain.Mission
	if err := s.api.Do(ctx, http.MethodGet, "/missions/active", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// MyMissions lists this week's missions with the current user's completion
// flags.
func (s *GamificationService) MyMissions(ctx context.Context) ([]domain.Mission, error) {
	var out []domain.Mission
	if err := s.api.Do(ctx, http.MethodGet, "/users/me/missions", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}
