package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized means the server rejected the credentials. The session
	// must end.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAttemptsExhausted means the server refuses further submissions.
	ErrAttemptsExhausted = errors.New("maximum number of tries exceeded")
)

// FetchError is a network, server, or decoding failure. It is always
// recoverable: show it and try again later.
type FetchError struct {
	Op     string // e.g. "GET /final"
	Status int    // HTTP status, 0 when no response arrived
	Detail string // server-provided detail, if any
	Err    error
}

func (e *FetchError) Error() string {
	msg := e.Op
	if e.Status != 0 {
		msg += fmt.Sprintf(": HTTP %d %s", e.Status, http.StatusText(e.Status))
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error { return e.Err }

// Retryable reports whether repeating the request may succeed.
func (e *FetchError) Retryable() bool {
	return e.Status == 0 || e.Status >= http.StatusInternalServerError || e.Status == http.StatusTooManyRequests
}
