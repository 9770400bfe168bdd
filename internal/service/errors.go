package service

import "errors"

// Outcomes the handlers translate into statuses and form messages.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrPasswordMismatch = errors.New("password does not match")
	ErrEmailExists      = errors.New("email already registered")
	ErrUsernameTaken    = errors.New("username already taken")
)

// Storage failures, wrapped together with the underlying cause.
var (
	ErrLookupFailed         = errors.New("user lookup failed")
	ErrDuplicateCheckFailed = errors.New("duplicate check failed")
	ErrCreateFailed         = errors.New("create user failed")
	ErrUpdateFailed         = errors.New("update user failed")
	ErrDeleteFailed         = errors.New("delete user failed")
)
