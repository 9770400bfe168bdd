package service

import "time"

// NewUserParams carries the submitted "new user" form.
type NewUserParams struct {
	Username string
	Email    string
	Password string
}

// LogFilter selects audit events. Zero values disable a condition.
type LogFilter struct {
	From   time.Time // inclusive
	To     time.Time // inclusive
	Type   string    // CREATED, UPDATED, DELETED or SEEDED, any case
	UserID string
	Limit  int // 0 means DefaultLogLimit
}
