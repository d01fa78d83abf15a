package triage

import (
	"errors"
	"net/http"
)

// Classification failure categories. A failed classification still carries
// a fallback Result; these errors describe why it fell back.
var (
	ErrMalformedRequest = errors.New("malformed classification request")
	ErrConfiguration    = errors.New("classification backend not configured")
	ErrTransport        = errors.New("classification backend unavailable")
	ErrParse            = errors.New("classification output could not be parsed")
	ErrValidation       = errors.New("classification output failed validation")
)

// MapHTTPStatus maps triage errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrMalformedRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrConfiguration):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrTransport),
		errors.Is(err, ErrParse),
		errors.Is(err, ErrValidation):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Fallback reports whether err caused the pipeline to return a fallback
// advisory rather than a classification.
func Fallback(err error) bool {
	return err != nil && !errors.Is(err, ErrMalformedRequest)
}
