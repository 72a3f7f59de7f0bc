// Package common defines shared constants and sentinel errors used across
// the diary server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// ErrConnection reports that no database connection could be obtained
	// in time (pool exhausted, acquire timeout, broken connection).
	// Retriable by the client.
	ErrConnection = errors.New("connection error")

	// ErrDatabase covers every other storage failure, constraint violations included.
	ErrDatabase = errors.New("database error")

	// ErrValidation is returned for input rejected before it reaches storage
	// (blank tag name, invalid page number, malformed body).
	ErrValidation = errors.New("validation error")
)
