package postgrescontainer

import (
	"context"
	"fmt"

	"github.com/amidgo/bootcontainers"
	"github.com/amidgo/bootcontainers/postgres/migrations"
	"github.com/rs/zerolog"
)

type BootstrapConfig struct {
	Migrations     migrations.Migrations
	InitialQueries []Query
	Schema         Schema
	DebugProfile   string
	Logger         zerolog.Logger
}

// NewBootstrap runs migrations and initial queries, then verifies Schema,
// both only under the debug profile. Verification runs only when both
// Schema.Schema and Schema.Table are set.
func NewBootstrap(ccf CreateContainerFunc, cfg BootstrapConfig) *containers.Bootstrap[Container] {
	b := &containers.Bootstrap[Container]{
		Provision:    containers.ProvisionFunc[Container](ccf),
		DebugProfile: cfg.DebugProfile,
		Logger:       cfg.Logger,
		Initialize: func(ctx context.Context, pgCnt Container) error {
			db, err := pgCnt.Connect(ctx, sslDisabled)
			if err != nil {
				return fmt.Errorf("connect to db, %w", err)
			}
			defer db.Close()

			return populate(ctx, db, cfg.Migrations, cfg.InitialQueries...)
		},
	}

	if cfg.Schema.Schema != "" && cfg.Schema.Table != "" {
		b.Verify = func(ctx context.Context, pgCnt Container) error {
			return Verify(ctx, pgCnt, cfg.Schema)
		}
	}

	return b
}

// Bootstrap runs NewBootstrap with the execution context and profiles from env.
// term terminates the container and is safe to call when err is not nil.
func Bootstrap(
	ctx context.Context,
	ccf CreateContainerFunc,
	env containers.Config,
	cfg BootstrapConfig,
) (pgCnt Container, term func(), err error) {
	if cfg.DebugProfile == "" {
		cfg.DebugProfile = env.DebugProfile
	}

	pgCnt, err = NewBootstrap(ccf, cfg).Run(ctx, env.ExecutionContext(), env.Profiles())

	term = func() {}

	if pgCnt != nil {
		term = func() {
			terminateErr := pgCnt.Terminate(context.Background())
			if terminateErr != nil {
				cfg.Logger.Warn().Err(terminateErr).Msg("failed to terminate postgres container")
			}
		}
	}

	return pgCnt, term, err
}
