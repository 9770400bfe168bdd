package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"user_manager/internal/models"

	"github.com/google/uuid"
)

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository { return &EventRepository{db: db} }

var _ EventRepo = (*EventRepository)(nil)

// timestampLayout keeps microseconds and sorts lexically, so SQLite text
// comparison and MySQL TIMESTAMP(6) agree on order.
const timestampLayout = "2006-01-02 15:04:05.000000"

const (
	insertEventSQL = `INSERT INTO user_events (id, occurred_at, type, user_id, message, meta) VALUES (?, ?, ?, ?, ?, ?)`
	selectEventSQL = `SELECT id, occurred_at, type, user_id, message, meta FROM user_events`
)

// Append inserts a new event. If EventID or OccurredAt are empty, they're set.
func (r *EventRepository) Append(ctx context.Context, e models.UserEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	var meta sql.NullString
	if e.Metadata != nil {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("encode metadata of %s event: %w", e.Type, err)
		}
		meta = sql.NullString{String: string(b), Valid: true}
	}

	var userID sql.NullString
	if e.UserID != "" {
		userID = sql.NullString{String: e.UserID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, insertEventSQL,
		e.EventID,
		e.OccurredAt.UTC().Format(timestampLayout),
		strings.ToUpper(strings.TrimSpace(e.Type)),
		userID,
		e.Description,
		meta,
	)
	if err != nil {
		return fmt.Errorf("insert event %s: %w", e.Type, err)
	}
	return nil
}

// List returns matching events, oldest first.
func (r *EventRepository) List(ctx context.Context, f EventFilter) ([]models.UserEvent, error) {
	q, args := buildEventQuery(f)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	defer rows.Close()

	out := make([]models.UserEvent, 0, 64)
	for rows.Next() {
		var (
			ev      models.UserEvent
			rawTime any
			userID  sql.NullString
			meta    sql.NullString
		)
		if err := rows.Scan(&ev.EventID, &rawTime, &ev.Type, &userID, &ev.Description, &meta); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ts, err := parseTimestamp(rawTime)
		if err != nil {
			return nil, fmt.Errorf("event %s: %w", ev.EventID, err)
		}
		ev.OccurredAt = ts
		ev.UserID = userID.String

		if meta.Valid && meta.String != "" {
			var v any
			if err := json.Unmarshal([]byte(meta.String), &v); err == nil {
				ev.Metadata = v
			} else {
				ev.Metadata = meta.String // keep raw if malformed
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}

func buildEventQuery(f EventFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if !f.From.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, f.From.UTC().Format(timestampLayout))
	}
	if !f.To.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, f.To.UTC().Format(timestampLayout))
	}
	if typ := strings.ToUpper(strings.TrimSpace(f.Type)); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}
	if f.UserID != "" {
		conds = append(conds, "user_id = ?")
		args = append(args, f.UserID)
	}

	q := selectEventSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}
	return q, args
}

// parseTimestamp accepts what the drivers hand back for a TIMESTAMP column:
// time.Time (parseTime / sqlite decltype) or the raw text.
func parseTimestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case []byte:
		return parseTimestampText(string(t))
	case string:
		return parseTimestampText(t)
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}

func parseTimestampText(s string) (time.Time, error) {
	// a fraction after the seconds is accepted even when the layout has none
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
