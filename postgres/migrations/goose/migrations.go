package goosemigrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/amidgo/bootcontainers/postgres/migrations"
	"github.com/pressly/goose/v3"
)

type gooseMigrations struct {
	fs fs.FS
}

func New(folder string) migrations.Migrations {
	return FS(os.DirFS(folder))
}

func Embed(fs embed.FS) migrations.Migrations {
	return FS(fs)
}

func FS(fs fs.FS) migrations.Migrations {
	return gooseMigrations{
		fs: fs,
	}
}

func (g gooseMigrations) Up(ctx context.Context, db *sql.DB) error {
	gooseProvider, err := goose.NewProvider(goose.DialectPostgres, db, g.fs)
	if err != nil {
		return fmt.Errorf("create provider, %w", err)
	}

	results, err := gooseProvider.Up(ctx)
	if err != nil {
		return fmt.Errorf("up provider migrations, %w", err)
	}

	return resultsError(results)
}

func (g gooseMigrations) Down(ctx context.Context, db *sql.DB) error {
	gooseProvider, err := goose.NewProvider(goose.DialectPostgres, db, g.fs)
	if err != nil {
		return fmt.Errorf("create provider, %w", err)
	}

	results, err := gooseProvider.DownTo(ctx, 0)
	if err != nil {
		return fmt.Errorf("down provider migrations, %w", err)
	}

	return resultsError(results)
}

func resultsError(results []*goose.MigrationResult) error {
	errs := make([]error, 0, len(results))

	for _, r := range results {
		if r.Error == nil {
			continue
		}

		errs = append(errs, fmt.Errorf("migration %s, %w", r.Source.Path, r.Error))
	}

	return errors.Join(errs...)
}
