package domain

import "errors"

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("not allowed")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("already exists")

	ErrSelfAssignment  = errors.New("admin cannot assign a task to themselves")
	ErrEmptyUpdate     = errors.New("no fields to update")
	ErrFieldForbidden  = errors.New("users can only update task status")
	ErrUnknownEmail    = errors.New("user not found with this email")
	ErrInvalidPassword = errors.New("invalid password")
	ErrTooManyAttempts = errors.New("too many failed login attempts")
)
