package service

import "errors"

// Error kinds surfaced to callers. Services wrap them with context using
// fmt.Errorf("%w: ...") so handlers can map them with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrValidation         = errors.New("validation failed")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrEmailExists        = errors.New("email already registered")
)
