// Package common defines shared sentinel errors and small helpers used across
// the BabelX client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorInvalidInput = errors.New("invalid input")

	// Account / session errors.
	ErrNoSession     = errors.New("no active session")
	ErrAccountExists = errors.New("account already exists")
)
