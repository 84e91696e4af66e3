package models

import "errors"

var (
	// ErrInvalidTransition is returned when a status change is not in the
	// allowed transition table.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrValidation is returned for malformed records or parameters.
	ErrValidation = errors.New("validation failed")
)
