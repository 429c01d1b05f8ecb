package migrations

import (
	"context"
	"database/sql"
)

// Migrations bring a database schema up to date.
type Migrations interface {
	Up(ctx context.Context, db *sql.DB) error
}

var Nil Migrations = nilMigrations{}

type nilMigrations struct{}

func (nilMigrations) Up(context.Context, *sql.DB) error {
	return nil
}
