package provider

import "errors"

// Shared provider errors.
var (
	// ErrMalformedOutput indicates a collaborator returned structured data
	// that does not match the requested shape.
	ErrMalformedOutput = errors.New("malformed collaborator output")

	// ErrUnavailable indicates a collaborator could not be reached.
	ErrUnavailable = errors.New("collaborator unavailable")
)
