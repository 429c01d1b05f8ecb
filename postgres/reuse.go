package postgrescontainer

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/amidgo/bootcontainers"
	"github.com/amidgo/bootcontainers/postgres/migrations"
	"github.com/jackc/pgx/v5"
)

func ReuseForTesting(
	t *testing.T,
	reusable *Reusable,
	migrations migrations.Migrations,
	initialQueries ...Query,
) *sql.DB {
	containers.SkipDisabled(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	db, term, err := Reuse(ctx, reusable, migrations, initialQueries...)
	t.Cleanup(term)

	if err != nil {
		t.Fatalf("reuse container, err: %s", err)
	}

	return db
}

// Reuse enters the shared container and returns a pool bound to a fresh schema,
// so concurrent users do not see each other's tables.
func Reuse(
	ctx context.Context,
	reusable *Reusable,
	migrations migrations.Migrations,
	initialQueries ...Query,
) (db *sql.DB, term func(), err error) {
	return reusable.run(ctx, migrations, initialQueries...)
}

// Reusable shares one postgres container, every Reuse gets a schema of its own.
type Reusable struct {
	shared        *containers.Reusable[Container]
	schemaCounter atomic.Int64
}

func NewReusable(ccf CreateContainerFunc, opts ...containers.ReuseOption) *Reusable {
	return &Reusable{
		shared: containers.NewReusable(containers.ProvisionFunc[Container](ccf), opts...),
	}
}

func (r *Reusable) Terminate(ctx context.Context) error {
	return r.shared.Terminate(ctx)
}

func (r *Reusable) run(
	ctx context.Context,
	migrations migrations.Migrations,
	initialQueries ...Query,
) (db *sql.DB, term func(), err error) {
	pgCnt, err := r.shared.Enter(ctx)
	if err != nil {
		return nil, func() {}, err
	}

	term = r.shared.Exit

	db, err = r.reuse(ctx, pgCnt, migrations, initialQueries...)
	if err != nil {
		return db, term, fmt.Errorf("reuse container, %w", err)
	}

	term = func() {
		_ = db.Close()

		r.shared.Exit()
	}

	return db, term, nil
}

func (r *Reusable) reuse(
	ctx context.Context,
	pgCnt Container,
	migrations migrations.Migrations,
	initialQueries ...Query,
) (*sql.DB, error) {
	schemaName, err := r.createSchema(ctx, pgCnt)
	if err != nil {
		return nil, err
	}

	db, err := pgCnt.Connect(ctx, sslDisabled, "search_path="+schemaName)
	if err != nil {
		return nil, fmt.Errorf("open connection to specific schema, schema_name=%s, %w", schemaName, err)
	}

	err = populate(ctx, db, migrations, initialQueries...)
	if err != nil {
		_ = db.Close()

		return nil, err
	}

	return db, nil
}

func (r *Reusable) createSchema(ctx context.Context, pgCnt Container) (schemaName string, err error) {
	baseDB, err := pgCnt.Connect(ctx, sslDisabled)
	if err != nil {
		return "", fmt.Errorf("open connection to db, %w", err)
	}
	defer baseDB.Close()

	schemaName = "reuse" + strconv.FormatInt(r.schemaCounter.Add(1), 10)

	_, err = baseDB.ExecContext(ctx, "CREATE SCHEMA "+pgx.Identifier{schemaName}.Sanitize())
	if err != nil {
		return "", fmt.Errorf("create schema %s, %w", schemaName, err)
	}

	return schemaName, nil
}
