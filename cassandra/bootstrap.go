package cassandracontainer

import (
	"context"
	"testing"

	"github.com/amidgo/bootcontainers"
	"github.com/rs/zerolog"
)

type BootstrapConfig struct {
	Script       Script
	Schema       Schema
	DebugProfile string
	Logger       zerolog.Logger
}

// NewBootstrap wires the cassandra initializer and verifier into a containers.Bootstrap.
// A nil Script skips schema population. Verification runs only when both
// Schema.Keyspace and Schema.Table are set.
func NewBootstrap(ccf CreateContainerFunc, cfg BootstrapConfig) *containers.Bootstrap[Container] {
	b := &containers.Bootstrap[Container]{
		Provision:    containers.ProvisionFunc[Container](ccf),
		DebugProfile: cfg.DebugProfile,
		Logger:       cfg.Logger,
	}

	if cfg.Script != nil {
		b.Initialize = func(ctx context.Context, cnt Container) error {
			return Initialize(ctx, cnt, cfg.Script)
		}
	}

	if cfg.Schema.Keyspace != "" && cfg.Schema.Table != "" {
		b.Verify = func(ctx context.Context, cnt Container) error {
			return Verify(ctx, cnt, cfg.Schema)
		}
	}

	return b
}

// Bootstrap runs the bootstrap with the execution context and profiles taken from env.
// term terminates the container and is safe to call when err is not nil.
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
				cfg.Logger.Warn().Err(terminateErr).Msg("failed to terminate cassandra container")
			}
		}
	}

	return cnt, term, err
}

func BootstrapForTesting(
	t *testing.T,
	ccf CreateContainerFunc,
	cfg BootstrapConfig,
) Container {
	containers.SkipDisabled(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cnt, term, err := Bootstrap(ctx, ccf, containers.ConfigForTesting(t), cfg)
	t.Cleanup(term)

	if err != nil {
		t.Fatalf("bootstrap cassandra container, %s", err)
	}

	return cnt
}
