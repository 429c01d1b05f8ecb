package postgresrunner

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"os"
	"testing"

	"github.com/amidgo/bootcontainers"
	postgrescontainer "github.com/amidgo/bootcontainers/postgres"
	"github.com/amidgo/bootcontainers/postgres/migrations"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const imageEnvName = "CONTAINERS_POSTGRES_IMAGE"

func RunForTestingConfig(
	t *testing.T,
	cfg *Config,
	migrations migrations.Migrations,
	initialQueries ...postgrescontainer.Query,
) *sql.DB {
	containers.SkipDisabled(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	db, term, err := RunConfig(ctx, cfg, migrations, initialQueries...)
	t.Cleanup(term)

	if err != nil {
		t.Fatal(err)
	}

	return db
}

func RunForTesting(
	t *testing.T,
	migrations migrations.Migrations,
	initialQueries ...postgrescontainer.Query,
) *sql.DB {
	return RunForTestingConfig(
		t,
		nil,
		migrations,
		initialQueries...,
	)
}

func Run(
	ctx context.Context,
	migrations migrations.Migrations,
	initialQueries ...postgrescontainer.Query,
) (db *sql.DB, term func(), err error) {
	return RunConfig(ctx, nil, migrations, initialQueries...)
}

func RunConfig(
	ctx context.Context,
	cfg *Config,
	migrations migrations.Migrations,
	initialQueries ...postgrescontainer.Query,
) (db *sql.DB, term func(), err error) {
	env, err := containerEnvironment(cfg)
	if err != nil {
		return nil, func() {}, err
	}

	pgCnt, err := RunContainer(cfg)(ctx, env.ExecutionContext())
	if err != nil {
		return nil, func() {}, err
	}

	return postgrescontainer.Init(ctx, pgCnt, containerLogger(cfg), migrations, initialQueries...)
}

func BootstrapForTesting(
	t *testing.T,
	cfg *Config,
	bootstrapCfg postgrescontainer.BootstrapConfig,
) postgrescontainer.Container {
	containers.SkipDisabled(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	pgCnt, term, err := Bootstrap(ctx, cfg, bootstrapCfg)
	t.Cleanup(term)

	if err != nil {
		t.Fatalf("bootstrap postgres container, %s", err)

		return nil
	}

	return pgCnt
}

func Bootstrap(
	ctx context.Context,
	cfg *Config,
	bootstrapCfg postgrescontainer.BootstrapConfig,
) (pgCnt postgrescontainer.Container, term func(), err error) {
	env, err := containerEnvironment(cfg)
	if err != nil {
		return nil, func() {}, err
	}

	bootstrapCfg.Logger = containerLogger(cfg)

	return postgrescontainer.Bootstrap(ctx, RunContainer(cfg), env, bootstrapCfg)
}

type Config struct {
	Containers    *containers.Config
	DBName        string
	DBUser        string
	DBPassword    string
	PostgresImage string
	DriverName    string
	Logger        *zerolog.Logger
}

const (
	defaultDBName        = "test"
	defaultDBUser        = "admin"
	defaultDBPassword    = "admin"
	defaultPostgresImage = "postgres:16-alpine"
	defaultDriverName    = "pgx"
)

func containerEnvironment(cfg *Config) (containers.Config, error) {
	if cfg != nil && cfg.Containers != nil {
		return *cfg.Containers, nil
	}

	env, err := containers.LoadConfig()
	if err != nil {
		return containers.Config{}, fmt.Errorf("load containers config, %w", err)
	}

	return env, nil
}

func containerLogger(cfg *Config) zerolog.Logger {
	if cfg != nil && cfg.Logger != nil {
		return *cfg.Logger
	}

	return containers.DefaultLogger()
}

func containerImage(cfg *Config) string {
	if cfg != nil && cfg.PostgresImage != "" {
		return cfg.PostgresImage
	}

	envImage := os.Getenv(imageEnvName)
	if envImage != "" {
		return envImage
	}

	return defaultPostgresImage
}

func valueOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}

	return value
}

func RunContainer(cfg *Config) postgrescontainer.CreateContainerFunc {
	return func(ctx context.Context, execCtx containers.ExecutionContext) (postgrescontainer.Container, error) {
		var c Config
		if cfg != nil {
			c = *cfg
		}

		env, err := containerEnvironment(cfg)
		if err != nil {
			return nil, err
		}

		logger := containerLogger(cfg)
		image := containerImage(cfg)
		containerEnv := containers.ProvisionEnv(execCtx, env)

		logger.Info().
			Stringer("execution_context", execCtx).
			Str("image", image).
			Msg("postgres testcontainer environment configuration")
		containers.LogEnv(logger, "postgres", containerEnv)

		postgresContainer, err := postgres.Run(ctx,
			image,
			postgres.WithDatabase(valueOrDefault(c.DBName, defaultDBName)),
			postgres.WithUsername(valueOrDefault(c.DBUser, defaultDBUser)),
			postgres.WithPassword(valueOrDefault(c.DBPassword, defaultDBPassword)),
			testcontainers.WithEnv(containerEnv),
			testcontainers.WithLogConsumers(containers.LogConsumer(logger, "postgres")),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2),
			),
		)
		if err != nil {
			if postgresContainer != nil {
				_ = postgresContainer.Terminate(context.Background())
			}

			return nil, &containers.ProvisionError{Image: image, Err: err}
		}

		return container{
			driverName: valueOrDefault(c.DriverName, defaultDriverName),
			cnt:        postgresContainer,
			env:        containerEnv,
		}, nil
	}
}

type container struct {
	driverName string
	cnt        *postgres.PostgresContainer
	env        map[string]string
}

func (c container) Connect(ctx context.Context, args ...string) (*sql.DB, error) {
	dataSourceName, err := c.cnt.ConnectionString(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("get connection string, %w", err)
	}

	db, err := sql.Open(c.driverName, dataSourceName)
	if err != nil {
		return nil, containers.NewResourceAccessError("open connection", err)
	}

	return db, nil
}

func (c container) Env() map[string]string {
	return maps.Clone(c.env)
}

func (c container) Terminate(ctx context.Context) error {
	return c.cnt.Terminate(ctx)
}
