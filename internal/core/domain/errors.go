package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrLookupFailure means an origin station has no upstream station code.
	ErrLookupFailure = errors.New("station lookup failed")

	// ErrMalformedPayload means a required field was missing or a time did not parse.
	ErrMalformedPayload = errors.New("malformed departure board payload")

	// ErrUpstreamUnavailable means the departure board service could not be reached.
	ErrUpstreamUnavailable = errors.New("departure board service unavailable")

	// ErrOriginNotConfigured means a caller asked for an origin that has no
	// calling points configured.
	ErrOriginNotConfigured = errors.New("origin not configured")
)

// LookupError reports a station name with no known code.
type LookupError struct {
	Station string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("station code not found for %q", e.Station)
}

func (e *LookupError) Is(target error) bool { return target == ErrLookupFailure }

// MalformedPayloadError reports the payload path that failed validation.
type MalformedPayloadError struct {
	Path string
	Err  error
}

func (e *MalformedPayloadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("malformed payload at %s", e.Path)
	}
	return fmt.Sprintf("malformed payload at %s: %v", e.Path, e.Err)
}

func (e *MalformedPayloadError) Unwrap() error { return e.Err }

func (e *MalformedPayloadError) Is(target error) bool { return target == ErrMalformedPayload }

// Malformed builds a MalformedPayloadError for a missing or bad field.
func Malformed(path string, err error) error {
	return &MalformedPayloadError{Path: path, Err: err}
}

// UpstreamError reports a failure to reach the departure board service.
type UpstreamError struct {
	Station string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("fetch departure board for %q: %v", e.Station, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstreamUnavailable }
