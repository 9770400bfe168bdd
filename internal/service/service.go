package service

import (
	"context"

	"user_manager/internal/logger"
	"user_manager/internal/models"
	"user_manager/internal/repository"
)

// Users is the create/list/edit/delete flow behind the HTML views.
type Users interface {
	Count(ctx context.Context) (int, error)
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	GetPublic(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, p NewUserParams) (*models.User, error)
	UpdateUsername(ctx context.Context, id, username, password string) (*models.User, error)
	Delete(ctx context.Context, id, password string) (*models.User, error)
}

// Stats exposes read-only aggregate numbers about the user table.
type Stats interface {
	GetStats(ctx context.Context) (models.UserStats, error)
}

// AuditLog exposes the append-only mutation log with filtering access.
type AuditLog interface {
	List(ctx context.Context, f LogFilter) ([]models.UserEvent, error)
}

// Feed streams mutations as they are recorded.
type Feed interface {
	Subscribe() (<-chan models.UserEvent, func())
}

// Seeder fills the table with generated users.
type Seeder interface {
	Seed(ctx context.Context, n int) (int, error)
}

// Service aggregates all sub-services.
type Service struct {
	Users    Users
	Stats    Stats
	AuditLog AuditLog
	Seeder   Seeder
	Feed     Feed
}

func NewService(repos *repository.Repository, log *logger.Logger) *Service {
	feed := NewEventFeed(defaultFeedBuffer)
	return &Service{
		Users:    NewUserService(repos.Users, repos.Events, feed, log),
		Stats:    NewStatsService(repos.Users),
		AuditLog: NewEventLogService(repos.Events),
		Seeder:   NewSeederService(repos.Users, repos.Events, feed, log),
		Feed:     feed,
	}
}
