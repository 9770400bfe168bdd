package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"user_manager/internal/logger"
	"user_manager/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSeederService_Seed(t *testing.T) {
	users := &mockUserRepo{}
	events := &mockEventRepo{}
	svc := NewSeederService(users, events, nil, logger.Nop())

	var batch []models.User
	users.On("CreateMany", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		batch = args.Get(1).([]models.User)
	}).Return(25, nil)
	events.On("Append", mock.Anything, eventOfType(models.EventSeeded)).Return(nil)

	n, err := svc.Seed(context.Background(), 25)
	require.NoError(t, err)
	assert.Equal(t, 25, n)
	require.Len(t, batch, 25)

	ids := make(map[string]struct{}, len(batch))
	for _, u := range batch {
		assert.Len(t, u.ID, 36)
		assert.NotEmpty(t, u.Username)
		assert.True(t, strings.Contains(u.Email, "@"), "email %q", u.Email)
		assert.Len(t, u.Password, seedPasswordLength)
		ids[u.ID] = struct{}{}
	}
	assert.Len(t, ids, 25)
	events.AssertExpectations(t)
}

func TestSeederService_Seed_NothingToDo(t *testing.T) {
	users := &mockUserRepo{}
	svc := NewSeederService(users, nil, nil, nil)

	for _, n := range []int{0, -3} {
		written, err := svc.Seed(context.Background(), n)
		require.NoError(t, err)
		assert.Zero(t, written)
	}
	users.AssertNotCalled(t, "CreateMany", mock.Anything, mock.Anything)
}

func TestSeederService_Seed_InsertError(t *testing.T) {
	users := &mockUserRepo{}
	events := &mockEventRepo{}
	svc := NewSeederService(users, events, nil, logger.Nop())
	users.On("CreateMany", mock.Anything, mock.Anything).Return(0, errors.New("too many connections"))

	_, err := svc.Seed(context.Background(), 3)
	require.ErrorContains(t, err, "too many connections")
	events.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}
