package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrRateLimited   = errors.New("rate limited")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidOrder  = errors.New("invalid order parameters")
	ErrSigningFailed = errors.New("signing failed")
	ErrWSDisconnect  = errors.New("websocket disconnected")
	ErrContextDone   = errors.New("context cancelled")

	// ErrGaveUp is returned by a venue adapter when the WS reconnect
	// state machine exhausts the adapter's maxReconnectAttempts without a
	// successful connect. The supervisor's errgroup then stops the whole
	// pipeline and Run returns the error.
	ErrGaveUp = errors.New("websocket reconnect attempts exhausted")

	// ErrCatalogFetch signals the venue's market catalog could not be
	// retrieved at startup. Always fatal.
	ErrCatalogFetch = errors.New("venue catalog fetch failed")

	// ErrIneligible is a non-fatal, per-market classification: the
	// market failed the adapter's eligibility predicate.
	ErrIneligible = errors.New("market not eligible")
)
