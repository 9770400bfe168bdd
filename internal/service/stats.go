package service

import (
	"context"
	"time"

	"user_manager/internal/models"
	"user_manager/internal/repository"
)

type StatsService struct {
	users repository.UserRepo
	now   func() time.Time
}

func NewStatsService(users repository.UserRepo) *StatsService {
	return &StatsService{users: users, now: time.Now}
}

// GetStats counts users and stamps the snapshot in UTC.
func (s *StatsService) GetStats(ctx context.Context) (models.UserStats, error) {
	total, err := s.users.Count(ctx)
	if err != nil {
		return models.UserStats{}, err
	}
	return models.UserStats{Total: total, GeneratedAt: s.now().UTC()}, nil
}
