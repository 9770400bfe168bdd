package service

import (
	"context"
	"fmt"

	"user_manager/internal/logger"
	"user_manager/internal/models"
	"user_manager/internal/repository"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

const seedPasswordLength = 12

// SeederService bulk-inserts fake users. No duplicate check is performed.
type SeederService struct {
	recorder
	users repository.UserRepo
	faker *gofakeit.Faker
}

func NewSeederService(users repository.UserRepo, events repository.EventRepo, feed *EventFeed, log *logger.Logger) *SeederService {
	return &SeederService{
		recorder: newRecorder(events, feed, log),
		users:    users,
		faker:    gofakeit.New(0), // 0 seeds from crypto/rand
	}
}

// Seed inserts n generated users and returns how many rows were written.
func (s *SeederService) Seed(ctx context.Context, n int) (int, error) {
	if n <= 0 {
		return 0, nil
	}

	batch := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		batch = append(batch, s.fakeUser())
	}

	written, err := s.users.CreateMany(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("seed %d users: %w", n, err)
	}

	s.record(ctx, models.UserEvent{
		Type:        models.EventSeeded,
		Description: "generated users inserted",
		Metadata:    map[string]int{"count": written},
	})
	return written, nil
}

func (s *SeederService) fakeUser() models.User {
	return models.User{
		ID:       uuid.NewString(),
		Username: s.faker.Username(),
		Email:    s.faker.Email(),
		Password: s.faker.Password(true, true, true, false, false, seedPasswordLength),
	}
}
