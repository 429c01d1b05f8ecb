package rediscontainer

import (
	"context"
	"fmt"

	"github.com/amidgo/bootcontainers"
	"github.com/rs/zerolog"
)

type BootstrapConfig struct {
	Initial      map[string]any
	Schema       Schema
	DebugProfile string
	Logger       zerolog.Logger
}

// NewBootstrap seeds Initial under the debug profile and verifies Schema
// when both Schema.Prefix and Schema.Key are set.
func NewBootstrap(ccf CreateContainerFunc, cfg BootstrapConfig) *containers.Bootstrap[Container] {
	b := &containers.Bootstrap[Container]{
		Provision:    containers.ProvisionFunc[Container](ccf),
		DebugProfile: cfg.DebugProfile,
		Logger:       cfg.Logger,
		Initialize: func(ctx context.Context, cnt Container) error {
			client, err := cnt.Connect(ctx)
			if err != nil {
				return fmt.Errorf("connect to redis container, %w", err)
			}
			defer client.Close()

			return seed(ctx, client, cfg.Initial)
		},
	}

	if cfg.Schema.Prefix != "" && cfg.Schema.Key != "" {
		b.Verify = func(ctx context.Context, cnt Container) error {
			return Verify(ctx, cnt, cfg.Schema)
		}
	}

	return b
}

func Bootstrap(
	ctx context.Context,
	ccf CreateContainerFunc,
	env containers.Config,
	cfg BootstrapConfig,
) (cnt Container, term func(), err error) {
	if cfg.DebugProfile == "" {
		cfg.DebugProfile = env.DebugProfile
	}

	cnt, err = NewBootstrap(ccf, cfg).Run(ctx, env.ExecutionContext(), env.Profiles())

	term = func() {}

	if cnt != nil {
		term = func() {
			terminateErr := cnt.Terminate(context.Background())
			if terminateErr != nil {
				cfg.Logger.Warn().Err(terminateErr).Msg("failed to terminate redis container")
			}
		}
	}

	return cnt, term, err
}
