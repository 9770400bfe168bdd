package repository

import (
	"context"
	"database/sql"
	"time"

	"user_manager/internal/models"
)

type UserRepo interface {
	Count(ctx context.Context) (int, error)
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetSummaryByID(ctx context.Context, id string) (*models.User, error)
	FindByEmailOrUsername(ctx context.Context, email, username string) ([]models.User, error)
	Create(ctx context.Context, u models.User) error
	CreateMany(ctx context.Context, users []models.User) (int, error)
	UpdateUsername(ctx context.Context, id, username string) error
	Delete(ctx context.Context, id string) error
}

// EventFilter narrows an audit listing. Zero values disable a condition.
type EventFilter struct {
	From   time.Time // inclusive
	To     time.Time // inclusive
	Type   string
	UserID string
	Limit  int
}

type EventRepo interface {
	Append(ctx context.Context, e models.UserEvent) error
	List(ctx context.Context, f EventFilter) ([]models.UserEvent, error)
}

type Repository struct {
	Users  UserRepo
	Events EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:  NewUserRepository(db),
		Events: NewEventRepository(db),
	}
}
