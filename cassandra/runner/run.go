package cassandrarunner

import (
	"context"
	"fmt"
	"maps"
	"os"
	"testing"

	"github.com/amidgo/bootcontainers"
	cassandracontainer "github.com/amidgo/bootcontainers/cassandra"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/cassandra"
)

const (
	imageEnvName      = "CONTAINERS_CASSANDRA_IMAGE"
	datacenterEnvName = "CASSANDRA_DC"
)

func RunForTesting(
	t *testing.T,
	scripts ...cassandracontainer.Script,
) cassandracontainer.Container {
	return RunForTestingConfig(t, nil, scripts...)
}

func RunForTestingConfig(
	t *testing.T,
	cfg *Config,
	scripts ...cassandracontainer.Script,
) cassandracontainer.Container {
	containers.SkipDisabled(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cnt, term, err := RunConfig(ctx, cfg, scripts...)
	t.Cleanup(term)

	if err != nil {
		t.Fatalf("run cassandra container with config, %s", err)

		return nil
	}

	return cnt
}

func Run(
	ctx context.Context,
	scripts ...cassandracontainer.Script,
) (cnt cassandracontainer.Container, term func(), err error) {
	return RunConfig(ctx, nil, scripts...)
}

// RunConfig provisions a container for the configured execution context and
// applies every script, regardless of the active profiles.
func RunConfig(
	ctx context.Context,
	cfg *Config,
	scripts ...cassandracontainer.Script,
) (cnt cassandracontainer.Container, term func(), err error) {
	env, err := containerEnvironment(cfg)
	if err != nil {
		return nil, func() {}, err
	}

	cnt, err = RunContainer(cfg)(ctx, env.ExecutionContext())
	if err != nil {
		return nil, func() {}, err
	}

	term, err = cassandracontainer.Init(ctx, cnt, containerLogger(cfg), scripts...)

	return cnt, term, err
}

func BootstrapForTesting(
	t *testing.T,
	cfg *Config,
	bootstrapCfg cassandracontainer.BootstrapConfig,
) cassandracontainer.Container {
	containers.SkipDisabled(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cnt, term, err := Bootstrap(ctx, cfg, bootstrapCfg)
	t.Cleanup(term)

	if err != nil {
		t.Fatalf("bootstrap cassandra container, %s", err)

		return nil
	}

	return cnt
}

// Bootstrap provisions the container and runs the initializer and verifier
// only when the debug profile is active. The runner logger replaces bootstrapCfg.Logger.
func Bootstrap(
	ctx context.Context,
	cfg *Config,
	bootstrapCfg cassandracontainer.BootstrapConfig,
) (cnt cassandracontainer.Container, term func(), err error) {
	env, err := containerEnvironment(cfg)
	if err != nil {
		return nil, func() {}, err
	}

	bootstrapCfg.Logger = containerLogger(cfg)

	return cassandracontainer.Bootstrap(ctx, RunContainer(cfg), env, bootstrapCfg)
}

type Config struct {
	// Containers defaults to containers.LoadConfig.
	Containers *containers.Config
	// Image overrides CONTAINERS_CASSANDRA_IMAGE and the versioned default.
	Image  string
	Logger *zerolog.Logger
}

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

func containerImage(cfg *Config, env containers.Config) string {
	if cfg != nil && cfg.Image != "" {
		return cfg.Image
	}

	envContainerImage := os.Getenv(imageEnvName)
	if envContainerImage != "" {
		return envContainerImage
	}

	return ImageReference(env.Cassandra.Version)
}

func containerLogger(cfg *Config) zerolog.Logger {
	if cfg != nil && cfg.Logger != nil {
		return *cfg.Logger
	}

	return containers.DefaultLogger()
}

const defaultVersion = "3.11.15"

func ImageReference(version string) string {
	if version == "" {
		version = defaultVersion
	}

	return "cassandra:" + version
}

// ContainerEnv is the environment RunContainer applies for execCtx.
func ContainerEnv(execCtx containers.ExecutionContext, env containers.Config) map[string]string {
	containerEnv := containers.ProvisionEnv(execCtx, env)

	datacenter := env.Cassandra.Datacenter
	if datacenter == "" {
		datacenter = cassandracontainer.DefaultDatacenter
	}

	containerEnv[datacenterEnvName] = datacenter

	return containerEnv
}

// RunContainer starts a cassandra container once, without retries.
func RunContainer(cfg *Config) cassandracontainer.CreateContainerFunc {
	return func(ctx context.Context, execCtx containers.ExecutionContext) (cassandracontainer.Container, error) {
		env, err := containerEnvironment(cfg)
		if err != nil {
			return nil, err
		}

		logger := containerLogger(cfg)
		image := containerImage(cfg, env)
		containerEnv := ContainerEnv(execCtx, env)

		logger.Info().
			Stringer("execution_context", execCtx).
			Bool("ci", execCtx == containers.ExecutionContextCI).
			Str("image", image).
			Msg("cassandra testcontainer environment configuration")
		containers.LogEnv(logger, "cassandra", containerEnv)

		cassandraContainer, err := cassandra.Run(ctx,
			image,
			testcontainers.WithEnv(containerEnv),
			testcontainers.WithLogConsumers(containers.LogConsumer(logger, "cassandra")),
		)
		if err != nil {
			if cassandraContainer != nil {
				_ = cassandraContainer.Terminate(context.Background())
			}

			return nil, &containers.ProvisionError{Image: image, Err: err}
		}

		return container{
			cassandraContainer: cassandraContainer,
			env:                containerEnv,
			session: cassandracontainer.SessionConfig{
				Datacenter: containerEnv[datacenterEnvName],
				Timeout:    env.Cassandra.Timeout,
			},
		}, nil
	}
}

type container struct {
	cassandraContainer *cassandra.CassandraContainer
	env                map[string]string
	session            cassandracontainer.SessionConfig
}

func (c container) ContactPoint(ctx context.Context) (cassandracontainer.ContactPoint, error) {
	return cassandracontainer.ResolveContactPoint(ctx, c.cassandraContainer, cassandracontainer.DefaultPort)
}

func (c container) Connect(ctx context.Context) (cassandracontainer.Session, error) {
	contactPoint, err := c.ContactPoint(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve contact point, %w", err)
	}

	return cassandracontainer.Connect(ctx, contactPoint, c.session)
}

func (c container) Env() map[string]string {
	return maps.Clone(c.env)
}

func (c container) Terminate(ctx context.Context) error {
	return c.cassandraContainer.Terminate(ctx)
}
