package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/finlink/internal/common"
	"github.com/dmitrijs2005/finlink/internal/dbx"
)

type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) Get(ctx context.Context, name string) (*Credential, error) {
	c := &Credential{}
	err := r.db.QueryRowContext(ctx,
		`SELECT name, secret, updated_at FROM credentials WHERE name = ?`, name,
	).Scan(&c.Name, &c.Secret, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("read credential %s: %w", name, err)
	}
	return c, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, name, secret string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO credentials (name, secret, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET secret = excluded.secret, updated_at = excluded.updated_at
	`, name, secret, r.now().UTC())
	if err != nil {
		return fmt.Errorf("write credential %s: %w", name, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, name string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE name = ?`, name)
	if err != nil {
		return false, fmt.Errorf("delete credential %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete credential %s: %w", name, err)
	}
	return n > 0, nil
}
