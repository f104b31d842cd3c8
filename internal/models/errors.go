package models

import "errors"

// Error taxonomy shared across the CLI, stores and the HTTP API.
// Callers classify with errors.Is after unwrapping.
var (
	// ErrNotFound covers missing accounts, token records and wallet files.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means the signing key is not the required authority.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrImmutable means a metadata update was attempted on a non-mutable token.
	ErrImmutable = errors.New("metadata is immutable")

	// ErrExternalProcess means the spl-token binary exited non-zero or its
	// output could not be understood.
	ErrExternalProcess = errors.New("external process failure")

	// ErrNetwork covers transport-level RPC and HTTP failures.
	ErrNetwork = errors.New("network failure")

	// ErrValidation covers malformed user input: bad address format,
	// out-of-range decimals, empty required fields.
	ErrValidation = errors.New("validation failure")
)
