// Package tokenstore persists the aggregator access token on the client.
//
// The token is the only thing that proves a bank is linked. It is kept in the
// local credentials table so it survives restarts.
package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/finlink/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/finlink/internal/common"
	"github.com/dmitrijs2005/finlink/internal/logging"
)

// Store reads and writes the access token and the user session token.
// Writes are serialised; reads never fail, a storage error reads as "absent".
type Store struct {
	mu     sync.Mutex
	repo   credentials.Repository
	logger logging.Logger
}

func New(repo credentials.Repository, logger logging.Logger) *Store {
	return &Store{repo: repo, logger: logger.With("module", "tokenstore")}
}

// Save stores the access token, replacing any previous value.
func (s *Store) Save(ctx context.Context, token string) error {
	return s.set(ctx, common.AccessTokenKey, token)
}

// Get returns the stored access token. ok is false when nothing is stored or
// the store could not be read.
func (s *Store) Get(ctx context.Context) (string, bool) {
	return s.get(ctx, common.AccessTokenKey)
}

// Clear removes the access token. Clearing an empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	return s.delete(ctx, common.AccessTokenKey)
}

// LinkedSince reports when the current access token was stored.
func (s *Store) LinkedSince(ctx context.Context) (time.Time, bool) {
	c, ok := s.read(ctx, common.AccessTokenKey)
	if !ok {
		return time.Time{}, false
	}
	return c.UpdatedAt, true
}

func (s *Store) SaveSessionToken(ctx context.Context, token string) error {
	return s.set(ctx, common.SessionTokenKey, token)
}

func (s *Store) SessionToken(ctx context.Context) (string, bool) {
	return s.get(ctx, common.SessionTokenKey)
}

func (s *Store) ClearSessionToken(ctx context.Context) error {
	return s.delete(ctx, common.SessionTokenKey)
}

func (s *Store) set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Put(ctx, key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *Store) delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.repo.Delete(ctx, key)
	if err != nil {
		return fmt.Errorf("clear %s: %w", key, err)
	}
	if !removed {
		s.logger.Debug(ctx, "nothing to clear", "key", key)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) (string, bool) {
	c, ok := s.read(ctx, key)
	if !ok {
		return "", false
	}
	return c.Secret, true
}

func (s *Store) read(ctx context.Context, key string) (*credentials.Credential, bool) {
	c, err := s.repo.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Warn(ctx, "token read failed, treating as absent", "key", key, "error", err)
		}
		return nil, false
	}
	if c.Secret == "" {
		return nil, false
	}
	return c, true
}
