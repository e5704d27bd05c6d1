package errs

import "errors"

// Sentinel errors for the domain layer.
// Lower layers wrap these with fmt.Errorf("...: %w", ...) so that the CLI can
// pick an exit message without knowing where the error came from.

var (
	// ErrNotFound is returned when a go.mod, package or config file is missing.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when filters or flags are invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStale is returned when a generated file differs from what would be
	// generated now.
	ErrStale = errors.New("generated file is out of date")

	// ErrSystem is returned when an unexpected system error occurs.
	ErrSystem = errors.New("system error")
)
