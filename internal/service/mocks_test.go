package service

import (
	"context"

	"user_manager/internal/models"
	"user_manager/internal/repository"

	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) GetSummaryByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) FindByEmailOrUsername(ctx context.Context, email, username string) ([]models.User, error) {
	args := m.Called(ctx, email, username)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

func (m *mockUserRepo) Create(ctx context.Context, u models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) CreateMany(ctx context.Context, users []models.User) (int, error) {
	args := m.Called(ctx, users)
	return args.Int(0), args.Error(1)
}

func (m *mockUserRepo) UpdateUsername(ctx context.Context, id, username string) error {
	return m.Called(ctx, id, username).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockEventRepo struct {
	mock.Mock
}

func (m *mockEventRepo) Append(ctx context.Context, e models.UserEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockEventRepo) List(ctx context.Context, f repository.EventFilter) ([]models.UserEvent, error) {
	args := m.Called(ctx, f)
	events, _ := args.Get(0).([]models.UserEvent)
	return events, args.Error(1)
}

// eventOfType matches an appended audit event by its type.
func eventOfType(typ string) any {
	return mock.MatchedBy(func(e models.UserEvent) bool { return e.Type == typ })
}
