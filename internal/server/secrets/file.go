package secrets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/finlink/internal/filex"
)

// FileStore reads secrets from files under a directory, for local
// development. The identifier "teller/certificate" maps to
// <dir>/teller/certificate.pem.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Fetch(ctx context.Context, id string) ([]byte, error) {
	if id == "" || strings.Contains(id, "..") {
		return nil, fmt.Errorf("%w: invalid id %q", ErrSecretNotFound, id)
	}

	path := filepath.Join(s.dir, filepath.FromSlash(id))
	if filepath.Ext(path) == "" {
		path += ".pem"
	}

	b, err := filex.ReadSecretFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSecretNotFound, id)
		}
		return nil, err
	}
	return b, nil
}
