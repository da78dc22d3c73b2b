// Package client contains client-side building blocks for finlink.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Gateway interface) for the
//     backend gateway: ListAccounts, ListTransactions, GetBalances and
//     ProcessEnrollment.
//  2. A concrete JSON-over-HTTP implementation (see HTTPGateway) that attaches
//     the aggregator access token to the request body, the platform header and
//     an optional session bearer, and enforces a fixed per-request timeout.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database with embedded goose migrations.
//
// # Error Handling
//
// Failures are classified against the sentinels in internal/common:
// ErrTimeout, ErrNetwork, ErrUpstream (5xx) and ErrValidation (4xx). Non-2xx
// answers arrive as *StatusError carrying the gateway's error body.
//
// Concurrency & Contexts
//
// HTTPGateway is safe for concurrent use. All operations accept
// context.Context; the fixed timeout is applied on top of the caller's
// deadline.
package client
