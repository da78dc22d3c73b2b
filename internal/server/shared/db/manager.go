// Package db opens the backend's PostgreSQL database and hands out
// repositories bound to a connection or transaction.
package db

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/finlink/internal/dbx"
	"github.com/dmitrijs2005/finlink/internal/server/enrollments"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Enrollments(db dbx.DBTX) enrollments.Repository
	Close() error
}
