package srcom

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// Common static errors that can be wrapped with context.
var (
	ErrNoMoreItems             = errors.New("no more items")
	ErrNoRunTime               = errors.New("at least one run time is required")
	ErrCustomValueNotSupported = errors.New("variable does not accept custom values")
	ErrNoLinkHeader            = errors.New("site response carried no API link")
	ErrUnknownElementType      = errors.New("unknown element type")
	ErrGameNotFound            = errors.New("game not found")
	ErrAPIKeyRequired          = errors.New("API key required")
	ErrInvalidJSON             = errors.New("invalid JSON document")
	ErrUnknownTimingMethod     = errors.New("unknown timing method")
	ErrUnknownEnumValue        = errors.New("unknown enum value")
)

// APIError is a non-2xx response whose body carried {message, errors?}.
type APIError struct {
	StatusCode int      `json:"status"  yaml:"status"`
	Message    string   `json:"message" yaml:"message"`
	Errors     []string `json:"errors"  yaml:"errors"`
	URI        string   `json:"uri"     yaml:"uri"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("%s (status: %d)", e.Message, e.StatusCode)
	}

	return fmt.Sprintf("%s: %s (status: %d)", e.Message, strings.Join(e.Errors, "; "), e.StatusCode)
}

// TransportError is a failure below the API: network errors, timeouts and
// non-2xx responses without a parseable error body.
type TransportError struct {
	URI        string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request to %s failed with status %d: %v", e.URI, e.StatusCode, e.Err)
	}

	return fmt.Sprintf("request to %s failed: %v", e.URI, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseResponseError converts an error response into an *APIError when the
// body has a message, and into a *TransportError otherwise.
func ParseResponseError(statusCode int, uri string, body []byte) error {
	if len(body) > 0 && gjson.ValidBytes(body) {
		doc := gjson.ParseBytes(body)

		message := doc.Get("message")
		if message.Type == gjson.String {
			apiErr := &APIError{
				StatusCode: statusCode,
				Message:    message.Str,
				URI:        uri,
			}

			doc.Get("errors").ForEach(func(_, value gjson.Result) bool {
				apiErr.Errors = append(apiErr.Errors, value.String())

				return true
			})

			return apiErr
		}
	}

	return &TransportError{
		URI:        uri,
		StatusCode: statusCode,
		Err:        errors.New(http.StatusText(statusCode)), //nolint:err113 // status text is the only detail available
	}
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}

	transportErr := &TransportError{}
	if errors.As(err, &transportErr) {
		return transportErr.StatusCode == http.StatusNotFound
	}

	return false
}

// IsAPIError reports whether err carries a structured API error.
func IsAPIError(err error) bool {
	apiErr := &APIError{}

	return errors.As(err, &apiErr)
}
