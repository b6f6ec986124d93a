package store

import (
	_ "github.com/jackc/pgx/v5/stdlib"
)

// NewPostgres creates a PostgreSQL-based store from a postgres:// URL.
func NewPostgres(dsn string) (*SQLStore, error) {
	return openSQL("pgx", dsn, postgresDialect, 0)
}
