package miniocontainer

import (
	"context"
	"fmt"

	"github.com/amidgo/bootcontainers"
	"github.com/rs/zerolog"
)

type BootstrapConfig struct {
	Buckets      []Bucket
	Schema       Schema
	DebugProfile string
	Logger       zerolog.Logger
}

// NewBootstrap creates buckets under the debug profile and verifies Schema
// when both Schema.Bucket and Schema.Object are set.
func NewBootstrap(ccf CreateContainerFunc, cfg BootstrapConfig) *containers.Bootstrap[Container] {
	b := &containers.Bootstrap[Container]{
		Provision:    containers.ProvisionFunc[Container](ccf),
		DebugProfile: cfg.DebugProfile,
		Logger:       cfg.Logger,
		Initialize: func(ctx context.Context, cnt Container) error {
			client, err := cnt.Connect(ctx)
			if err != nil {
				return fmt.Errorf("connect to minio container, %w", err)
			}

			return insertBuckets(ctx, client, cfg.Buckets...)
		},
	}

	if cfg.Schema.Bucket != "" && cfg.Schema.Object != "" {
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
				cfg.Logger.Warn().Err(terminateErr).Msg("failed to terminate minio container")
			}
		}
	}

	return cnt, term, err
}
