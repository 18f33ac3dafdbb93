package catalog

import "errors"

var (
	ErrEmptyQuery     = errors.New("search query is empty")
	ErrMissingAPIKey  = errors.New("GOOGLE_BOOKS_API_KEY not configured")
	ErrUpstream       = errors.New("book search upstream failed")
	ErrVolumeNotFound = errors.New("volume not found")
)
