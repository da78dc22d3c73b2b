// Package credentials keeps named secrets (the aggregator access token and
// the user session token) in the client's SQLite database.
package credentials

import (
	"context"
	"time"
)

// Credential is one stored secret.
type Credential struct {
	Name      string
	Secret    string
	UpdatedAt time.Time
}

// Repository stores one secret per name. Get returns common.ErrNotFound for
// an unknown name; Put replaces; Delete reports whether a row was removed.
type Repository interface {
	Get(ctx context.Context, name string) (*Credential, error)
	Put(ctx context.Context, name, secret string) error
	Delete(ctx context.Context, name string) (bool, error)
}
