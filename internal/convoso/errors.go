package convoso

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstream wraps every failure talking to the upstream API
	ErrUpstream = errors.New("upstream request failed")
	// ErrLeadNotFound is returned when a lead search has no entries
	ErrLeadNotFound = errors.New("lead not found")
)

// APIError is a well-formed upstream response that reported success=false
type APIError struct {
	Endpoint string
	Code     string
	Message  string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "success=false"
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (code %s)", e.Endpoint, msg, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Endpoint, msg)
}

// Unwrap lets callers match any upstream failure with errors.Is(err, ErrUpstream)
func (e *APIError) Unwrap() error {
	return ErrUpstream
}
