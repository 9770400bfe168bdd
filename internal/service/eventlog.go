package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"user_manager/internal/models"
	"user_manager/internal/repository"
)

const (
	DefaultLogLimit = 100
	MaxLogLimit     = 1000
)

var (
	ErrInvalidTimeRange = errors.New("'from' must not be after 'to'")
	ErrUnknownEventType = errors.New("unknown event type")
	ErrInvalidLimit     = fmt.Errorf("limit must be between 1 and %d", MaxLogLimit)
)

var eventTypes = map[string]struct{}{
	models.EventCreated: {},
	models.EventUpdated: {},
	models.EventDeleted: {},
	models.EventSeeded:  {},
}

// EventLogService answers audit queries, either across all users or for the
// history of a single id. Deleted users keep their history.
type EventLogService struct {
	events repository.EventRepo
}

func NewEventLogService(events repository.EventRepo) *EventLogService {
	return &EventLogService{events: events}
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.UserEvent, error) {
	rf, err := toEventFilter(f)
	if err != nil {
		return nil, err
	}
	return s.events.List(ctx, rf)
}

// toEventFilter validates f and converts it to repository terms in UTC.
func toEventFilter(f LogFilter) (repository.EventFilter, error) {
	rf := repository.EventFilter{
		UserID: strings.TrimSpace(f.UserID),
		Limit:  f.Limit,
	}
	if !f.From.IsZero() {
		rf.From = f.From.UTC()
	}
	if !f.To.IsZero() {
		rf.To = f.To.UTC()
	}
	if !rf.From.IsZero() && !rf.To.IsZero() && rf.From.After(rf.To) {
		return repository.EventFilter{}, ErrInvalidTimeRange
	}

	if typ := strings.ToUpper(strings.TrimSpace(f.Type)); typ != "" {
		if _, ok := eventTypes[typ]; !ok {
			return repository.EventFilter{}, fmt.Errorf("%w %q", ErrUnknownEventType, f.Type)
		}
		rf.Type = typ
	}

	switch {
	case rf.Limit == 0:
		rf.Limit = DefaultLogLimit
	case rf.Limit < 0 || rf.Limit > MaxLogLimit:
		return repository.EventFilter{}, ErrInvalidLimit
	}
	return rf, nil
}
