package constants

import "errors"

// Configuration errors.
var (
	ErrInvalidBaseURL   = errors.New("invalid API base URL")
	ErrInvalidCacheSize = errors.New("cache size must be positive")
	ErrUnknownConfigKey = errors.New("unknown configuration key")
	ErrAPIKeyRequired   = errors.New("an API key is required, use 'srcom login' to store one")
	ErrInvalidAPIKey    = errors.New("the API key was rejected")
)

// Validation errors.
var (
	ErrInvalidStatus    = errors.New("invalid run status, expected new, verified or rejected")
	ErrInvalidOutput    = errors.New("invalid output format, expected table, json or yaml")
	ErrInvalidDuration  = errors.New("invalid duration")
	ErrInvalidFilter    = errors.New("invalid run filter expression")
	ErrMissingArguments = errors.New("missing required arguments")
)
