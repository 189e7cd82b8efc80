// Package schema has models, enums and errors for all parts of tootstats.
package schema

import "errors"

// Sentinel errors returned by the engine. Callers test them with errors.Is.
var (
	// ErrInvalidTimezone is returned for an unrecognized IANA timezone identifier.
	ErrInvalidTimezone = errors.New("invalid timezone")

	// ErrInvalidArgument is returned for malformed requests before any storage call.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStorageUnavailable is returned when the snapshot store fails or times out.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
