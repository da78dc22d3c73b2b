package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
)

// StatusError is returned when the gateway answers with a non-2xx status.
// It unwraps to common.ErrUpstream for 5xx, ErrUnauthorized for 401/403 and
// common.ErrValidation for other 4xx responses.
type StatusError struct {
	StatusCode int
	Message    string
	Detail     string
	Err        error
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("gateway returned %d", e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *StatusError) Unwrap() error {
	return e.Err
}
