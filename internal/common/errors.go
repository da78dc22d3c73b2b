// Package common defines shared constants and sentinel errors used across
// client and server layers of finlink. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Input errors. Surfaced immediately, never retried.
	ErrValidation = errors.New("validation error")

	// Transport errors. Recoverable by a user-initiated retry.
	ErrNetwork = errors.New("network error")
	ErrTimeout = errors.New("request timed out")

	// Secret retrieval or aggregator failure behind the gateway.
	ErrUpstream = errors.New("upstream error")

	// Malformed message from the embedded widget. Never terminates a session.
	ErrMessageParse = errors.New("message parse error")

	// No access token is stored on the client.
	ErrNotLinked = errors.New("no linked accounts")

	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Session token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
