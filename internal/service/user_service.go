package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"user_manager/internal/logger"
	"user_manager/internal/models"
	"user_manager/internal/repository"

	"github.com/google/uuid"
)

// UserService runs the check-then-act flows. The check and the write are
// separate statements without a transaction, so concurrent requests may race.
type UserService struct {
	recorder
	users repository.UserRepo
	newID func() string
}

func NewUserService(users repository.UserRepo, events repository.EventRepo, feed *EventFeed, log *logger.Logger) *UserService {
	return &UserService{
		recorder: newRecorder(events, feed, log),
		users:    users,
		newID:    uuid.NewString,
	}
}

var _ Users = (*UserService)(nil)

func (s *UserService) Count(ctx context.Context) (int, error) {
	return s.users.Count(ctx)
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// Get returns the full row, password included.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// GetPublic returns the row without reading the password column.
func (s *UserService) GetPublic(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.GetSummaryByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// Create rejects the submission when any row already has the email or the
// username, otherwise inserts it under a fresh random id.
func (s *UserService) Create(ctx context.Context, p NewUserParams) (*models.User, error) {
	id := s.newID()

	existing, err := s.users.FindByEmailOrUsername(ctx, p.Email, p.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDuplicateCheckFailed, err)
	}
	if len(existing) > 0 {
		return nil, duplicateError(existing, p.Email)
	}

	u := models.User{ID: id, Username: p.Username, Email: p.Email, Password: p.Password}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}

	s.record(ctx, models.UserEvent{
		Type:        models.EventCreated,
		UserID:      u.ID,
		Description: "user created",
		Metadata:    map[string]string{"username": u.Username, "email": u.Email},
	})
	return &u, nil
}

// UpdateUsername changes the username when password equals the stored one.
// Uniqueness is not re-checked.
func (s *UserService) UpdateUsername(ctx context.Context, id, username, password string) (*models.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !passwordsMatch(u.Password, password) {
		return u, ErrPasswordMismatch
	}

	if err := s.users.UpdateUsername(ctx, id, username); err != nil {
		return u, fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}

	previous := u.Username
	u.Username = username
	s.record(ctx, models.UserEvent{
		Type:        models.EventUpdated,
		UserID:      id,
		Description: "username changed",
		Metadata:    map[string]string{"from": previous, "to": username},
	})
	return u, nil
}

// Delete removes the row when password equals the stored one. The looked-up
// user is returned alongside ErrPasswordMismatch and ErrDeleteFailed so the
// confirmation page can be rendered again.
func (s *UserService) Delete(ctx context.Context, id, password string) (*models.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !passwordsMatch(u.Password, password) {
		return u, ErrPasswordMismatch
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return u, fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}

	s.record(ctx, models.UserEvent{
		Type:        models.EventDeleted,
		UserID:      id,
		Description: "user deleted",
		Metadata:    map[string]string{"username": u.Username, "email": u.Email},
	})
	return u, nil
}

// duplicateError reports the email collision first, whichever row carries it.
func duplicateError(existing []models.User, email string) error {
	for _, u := range existing {
		if u.Email == email {
			return ErrEmailExists
		}
	}
	return ErrUsernameTaken
}

// passwordsMatch is an exact plaintext comparison.
func passwordsMatch(stored, submitted string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1
}
