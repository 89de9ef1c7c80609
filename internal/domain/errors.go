package domain

import "errors"

// Provider error kinds. The façade branches on these with errors.Is; anything
// else coming out of the provider client is a genuine request failure
// (network, non-2xx, malformed JSON) wrapped with context.
var (
	// ErrNoAPIKey: the provider rejected us with 401 while no API key is
	// configured. Expected in local development; triggers the silent
	// sample-data fallback and is never logged.
	ErrNoAPIKey = errors.New("repliers: unauthorized, no api key configured")

	// ErrUnauthorized: 401 with a key configured (bad or expired key).
	ErrUnauthorized = errors.New("repliers: unauthorized")

	// ErrNotFound: 404 for a single-listing lookup.
	ErrNotFound = errors.New("repliers: not found")
)
