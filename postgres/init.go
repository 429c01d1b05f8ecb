package postgrescontainer

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/amidgo/bootcontainers/postgres/migrations"
	"github.com/rs/zerolog"
)

// Init connects to pgCnt, runs migrations and initial queries.
// term closes db and terminates the container, call it even when err is not nil.
func Init(
	ctx context.Context,
	pgCnt Container,
	logger zerolog.Logger,
	migrations migrations.Migrations,
	initialQueries ...Query,
) (db *sql.DB, term func(), err error) {
	term = func() {
		terminateErr := pgCnt.Terminate(context.Background())
		if terminateErr != nil {
			logger.Warn().Err(terminateErr).Msg("failed to terminate postgres container")
		}
	}

	db, err = pgCnt.Connect(ctx, sslDisabled)
	if err != nil {
		return nil, term, fmt.Errorf("connect to db, %w", err)
	}

	terminate := term
	term = func() {
		_ = db.Close()

		terminate()
	}

	err = populate(ctx, db, migrations, initialQueries...)
	if err != nil {
		return db, term, err
	}

	return db, term, nil
}

func populate(
	ctx context.Context,
	db *sql.DB,
	migrations migrations.Migrations,
	initialQueries ...Query,
) error {
	if migrations != nil {
		err := migrations.Up(ctx, db)
		if err != nil {
			return fmt.Errorf("up migrations, %w", err)
		}
	}

	return execQueries(ctx, db, initialQueries...)
}
