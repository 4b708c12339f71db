package domain

import "errors"

var (
	// ErrInvalidRequest is returned when a required identifying parameter is absent or malformed
	ErrInvalidRequest = errors.New("invalid request")

	// ErrSourceUnavailable is returned when every quote source failed for a transport reason
	ErrSourceUnavailable = errors.New("quote source unavailable")

	// ErrQuoteNotFound is returned when no source knows the requested symbol
	ErrQuoteNotFound = errors.New("quote not found")

	// ErrMalformedQuote is returned when a source payload cannot be normalized
	ErrMalformedQuote = errors.New("malformed quote")

	// ErrAssetNotFound is returned by update/remove when no record has the given ID
	ErrAssetNotFound = errors.New("asset not found")

	// ErrNotStored is returned by a store that has never been written to
	ErrNotStored = errors.New("nothing stored yet")
)
