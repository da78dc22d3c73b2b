// Package secrets fetches the mTLS certificate and private key the relay
// presents to the aggregator.
package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/finlink/internal/server/config"
)

var ErrSecretNotFound = errors.New("secret not found")

// Store returns the raw value stored under id.
type Store interface {
	Fetch(ctx context.Context, id string) ([]byte, error)
}

// Material is the PEM pair used for one relay invocation.
type Material struct {
	Certificate []byte
	PrivateKey  []byte
}

// FetchMaterial reads the certificate and the private key.
func FetchMaterial(ctx context.Context, s Store, certID, keyID string) (*Material, error) {
	cert, err := s.Fetch(ctx, certID)
	if err != nil {
		return nil, fmt.Errorf("fetch certificate %q: %w", certID, err)
	}
	key, err := s.Fetch(ctx, keyID)
	if err != nil {
		return nil, fmt.Errorf("fetch private key %q: %w", keyID, err)
	}
	return &Material{Certificate: cert, PrivateKey: key}, nil
}

// New builds the store selected by cfg.SecretBackend.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.SecretBackend {
	case config.SecretBackendSecretsManager, "":
		return NewSecretsManagerStore(ctx, cfg.S3Region)
	case config.SecretBackendS3:
		return NewS3Store(ctx, cfg)
	case config.SecretBackendFile:
		return NewFileStore(cfg.SecretsDir), nil
	default:
		return nil, fmt.Errorf("unknown secret backend %q", cfg.SecretBackend)
	}
}
