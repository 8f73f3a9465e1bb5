package domain

import "errors"

var (
	// ErrConfiguration indicates required input (url, path, mode) is missing or invalid.
	// Returned before any network or file access.
	ErrConfiguration = errors.New("configuration error")

	// ErrSourceUnavailable indicates a transport level failure fetching a source document
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrMalformedDocument indicates the fetched document can't be parsed, no partial results returned
	ErrMalformedDocument = errors.New("malformed document")

	// ErrIndexNotFound indicates the target search index doesn't exist
	ErrIndexNotFound = errors.New("index not found")
)
