package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidRequest = errors.New("INVALID_REQUEST")
	ErrInvalidID      = errors.New("INVALID_ID")
)
