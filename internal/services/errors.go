package services

import "errors"

// Service-level sentinel errors. Handlers map these to API error codes.
var (
	ErrCountryNotFound    = errors.New("country not found")
	ErrYearOutOfRange     = errors.New("year outside the configured range")
	ErrNotEnoughData      = errors.New("not enough data")
	ErrDatasetUnavailable = errors.New("dataset unavailable")
)
