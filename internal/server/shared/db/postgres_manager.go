package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/finlink/internal/dbx"
	"github.com/dmitrijs2005/finlink/internal/server/enrollments"
	"github.com/dmitrijs2005/finlink/internal/server/migrations"
)

type PostgresRepositoryManager struct {
	db *sql.DB
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Enrollments(db dbx.DBTX) enrollments.Repository {
	return enrollments.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, m.db, ".")
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

// NewPostgresRepositoryManager opens dsn with the pgx driver, checks the
// connection and applies the embedded migrations.
func NewPostgresRepositoryManager(ctx context.Context, dsn string) (RepositoryManager, error) {
	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	m := &PostgresRepositoryManager{db: conn}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := m.RunMigrations(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
