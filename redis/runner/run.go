package redisrunner

import (
	"context"
	"fmt"
	"maps"
	"os"
	"testing"

	"github.com/amidgo/bootcontainers"
	rediscontainer "github.com/amidgo/bootcontainers/redis"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

const (
	imageEnvName = "CONTAINERS_REDIS_IMAGE"
	defaultImage = "redis:7-alpine"
)

func RunForTesting(t *testing.T, initial map[string]any) *redis.Client {
	return RunForTestingConfig(t, nil, initial)
}

func RunForTestingConfig(t *testing.T, cfg *Config, initial map[string]any) *redis.Client {
	containers.SkipDisabled(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	client, term, err := RunConfig(ctx, cfg, initial)
	t.Cleanup(term)

	if err != nil {
		t.Fatalf("run redis container, %s", err)

		return nil
	}

	return client
}

func Run(ctx context.Context, initial map[string]any) (client *redis.Client, term func(), err error) {
	return RunConfig(ctx, nil, initial)
}

func RunConfig(
	ctx context.Context,
	cfg *Config,
	initial map[string]any,
) (client *redis.Client, term func(), err error) {
	env, err := containerEnvironment(cfg)
	if err != nil {
		return nil, func() {}, err
	}

	cnt, err := RunContainer(cfg)(ctx, env.ExecutionContext())
	if err != nil {
		return nil, func() {}, err
	}

	return rediscontainer.Init(ctx, cnt, containerLogger(cfg), initial)
}

func Bootstrap(
	ctx context.Context,
	cfg *Config,
	bootstrapCfg rediscontainer.BootstrapConfig,
) (cnt rediscontainer.Container, term func(), err error) {
	env, err := containerEnvironment(cfg)
	if err != nil {
		return nil, func() {}, err
	}

	bootstrapCfg.Logger = containerLogger(cfg)

	return rediscontainer.Bootstrap(ctx, RunContainer(cfg), env, bootstrapCfg)
}

type Config struct {
	Containers *containers.Config
	Image      string
	Logger     *zerolog.Logger
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

func containerLogger(cfg *Config) zerolog.Logger {
	if cfg != nil && cfg.Logger != nil {
		return *cfg.Logger
	}

	return containers.DefaultLogger()
}

func containerImage(cfg *Config) string {
	if cfg != nil && cfg.Image != "" {
		return cfg.Image
	}

	envImage := os.Getenv(imageEnvName)
	if envImage != "" {
		return envImage
	}

	return defaultImage
}

func RunContainer(cfg *Config) rediscontainer.CreateContainerFunc {
	return func(ctx context.Context, execCtx containers.ExecutionContext) (rediscontainer.Container, error) {
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
			Msg("redis testcontainer environment configuration")
		containers.LogEnv(logger, "redis", containerEnv)

		redisContainer, err := tcredis.Run(ctx,
			image,
			testcontainers.WithEnv(containerEnv),
			testcontainers.WithLogConsumers(containers.LogConsumer(logger, "redis")),
		)
		if err != nil {
			if redisContainer != nil {
				_ = redisContainer.Terminate(context.Background())
			}

			return nil, &containers.ProvisionError{Image: image, Err: err}
		}

		return container{
			redisContainer: redisContainer,
			env:            containerEnv,
		}, nil
	}
}

type container struct {
	redisContainer *tcredis.RedisContainer
	env            map[string]string
}

func (c container) Connect(ctx context.Context) (*redis.Client, error) {
	connectionString, err := c.redisContainer.ConnectionString(ctx)
	if err != nil {
		return nil, fmt.Errorf("get connection string, %w", err)
	}

	opts, err := redis.ParseURL(connectionString)
	if err != nil {
		return nil, containers.NewResourceAccessError("parse redis url", err)
	}

	return redis.NewClient(opts), nil
}

func (c container) Env() map[string]string {
	return maps.Clone(c.env)
}

func (c container) Terminate(ctx context.Context) error {
	return c.redisContainer.Terminate(ctx)
}
