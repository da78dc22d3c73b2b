// Package common contains shared constants and sentinel errors used across
// finlink components.
package common

// AccessTokenKey is the credential name under which the client persists the
// aggregator access token.
const AccessTokenKey = "@teller_access_token"

// SessionTokenKey holds the user's own session token. It is unrelated to the
// aggregator access token and is only sent as a bearer credential.
const SessionTokenKey = "@user_token"

// PlatformHeaderName identifies the client platform on every gateway request.
const PlatformHeaderName = "X-Platform"

// IdempotencyKeyHeaderName lets the gateway de-duplicate repeated enrollment
// notifications.
const IdempotencyKeyHeaderName = "Idempotency-Key"
