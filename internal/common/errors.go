// Package common defines shared sentinel errors used across the diary
// client's layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")
	ErrStorage  = errors.New("storage unavailable")

	// Sync errors. ErrSync is recoverable; the caller decides whether and
	// when to retry. The reconciler itself never retries.
	ErrSync = errors.New("sync failed")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Validation errors.
	ErrValidation = errors.New("validation error")
)
