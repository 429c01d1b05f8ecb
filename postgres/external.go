package postgrescontainer

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/amidgo/bootcontainers"
	"github.com/amidgo/bootcontainers/postgres/migrations"
	"github.com/rs/zerolog"

	//nolint:revive //need for connect to database
	_ "github.com/jackc/pgx/v5/stdlib"
)

const connectionStringEnvName = "CONTAINERS_POSTGRES_CONNECTION_STRING"

var externalReusable = NewReusable(ExternalContainer(nil))

func ExternalReusable() *Reusable {
	return externalReusable
}

func UseExternalForTestingConfig(
	t *testing.T,
	cfg *ExternalContainerConfig,
	migrations migrations.Migrations,
	initialQueries ...Query,
) *sql.DB {
	containers.SkipDisabled(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	db, term, err := UseExternalConfig(ctx, cfg, migrations, initialQueries...)
	t.Cleanup(term)

	if err != nil {
		t.Fatal(err)

		return nil
	}

	return db
}

func UseExternalForTesting(
	t *testing.T,
	migrations migrations.Migrations,
	initialQueries ...Query,
) *sql.DB {
	return UseExternalForTestingConfig(
		t,
		nil,
		migrations,
		initialQueries...,
	)
}

func UseExternalConfig(
	ctx context.Context,
	cfg *ExternalContainerConfig,
	migrations migrations.Migrations,
	initialQueries ...Query,
) (db *sql.DB, term func(), err error) {
	pgCnt, err := ExternalContainer(cfg)(ctx, containers.ExecutionContextLocal)
	if err != nil {
		return nil, func() {}, err
	}

	return Init(ctx, pgCnt, zerolog.Nop(), migrations, initialQueries...)
}

func UseExternal(
	ctx context.Context,
	migrations migrations.Migrations,
	initialQueries ...Query,
) (db *sql.DB, term func(), err error) {
	return UseExternalConfig(ctx, nil, migrations, initialQueries...)
}

type ExternalContainerConfig struct {
	DriverName       string
	ConnectionString string
}

func externalContainerDriverName(cfg *ExternalContainerConfig) string {
	const defaultDriverName = "pgx"

	if cfg != nil && cfg.DriverName != "" {
		return cfg.DriverName
	}

	return defaultDriverName
}

func externalContainerConnectionString(cfg *ExternalContainerConfig) string {
	if cfg != nil && cfg.ConnectionString != "" {
		return cfg.ConnectionString
	}

	return os.Getenv(connectionStringEnvName)
}

func ExternalContainer(cfg *ExternalContainerConfig) CreateContainerFunc {
	return func(context.Context, containers.ExecutionContext) (Container, error) {
		connectionString := externalContainerConnectionString(cfg)
		if connectionString == "" {
			return nil, containers.NewResourceNotFoundError(
				"connection string is empty and environment variable "+connectionStringEnvName+" is empty",
				nil,
			)
		}

		return externalContainer{
			connectionString: connectionString,
			driverName:       externalContainerDriverName(cfg),
		}, nil
	}
}

type externalContainer struct {
	connectionString string
	driverName       string
}

func (externalContainer) Terminate(context.Context) error {
	return nil
}

func (externalContainer) Env() map[string]string {
	return map[string]string{}
}

func (e externalContainer) Connect(_ context.Context, args ...string) (*sql.DB, error) {
	db, err := sql.Open(e.driverName, e.dataSourceName(args...))
	if err != nil {
		return nil, containers.NewResourceAccessError("open connection to database", err)
	}

	return db, nil
}

func (e externalContainer) dataSourceName(args ...string) string {
	if len(args) == 0 {
		return e.connectionString
	}

	separator := "?"
	if strings.Contains(e.connectionString, "?") {
		separator = "&"
	}

	return e.connectionString + separator + strings.Join(args, "&")
}

func (e externalContainer) String() string {
	return fmt.Sprintf("external postgres (%s)", e.driverName)
}
