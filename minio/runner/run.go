package miniorunner

import (
	"context"
	"fmt"
	"maps"
	"os"
	"testing"

	"github.com/amidgo/bootcontainers"
	miniocontainer "github.com/amidgo/bootcontainers/minio"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	miniocnt "github.com/testcontainers/testcontainers-go/modules/minio"
)

func RunForTesting(
	t *testing.T,
	buckets ...miniocontainer.Bucket,
) *minio.Client {
	return RunForTestingConfig(t, nil, buckets...)
}

func RunForTestingConfig(
	t *testing.T,
	cfg *ContainerConfig,
	buckets ...miniocontainer.Bucket,
) *minio.Client {
	containers.SkipDisabled(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	minioClient, term, err := RunConfig(ctx, cfg, buckets...)
	t.Cleanup(term)

	if err != nil {
		t.Fatalf("run minio container with config, %s", err.Error())

		return nil
	}

	return minioClient
}

func Run(
	ctx context.Context,
	buckets ...miniocontainer.Bucket,
) (minioClient *minio.Client, term func(), err error) {
	return RunConfig(ctx, nil, buckets...)
}

func RunConfig(
	ctx context.Context,
	cfg *ContainerConfig,
	buckets ...miniocontainer.Bucket,
) (minioClient *minio.Client, term func(), err error) {
	env, err := containerEnvironment(cfg)
	if err != nil {
		return nil, func() {}, err
	}

	cnt, err := RunContainer(cfg)(ctx, env.ExecutionContext())
	if err != nil {
		return nil, func() {}, fmt.Errorf("run container, %w", err)
	}

	return miniocontainer.Init(ctx, cnt, containerLogger(cfg), buckets...)
}

func BootstrapForTesting(
	t *testing.T,
	cfg *ContainerConfig,
	bootstrapCfg miniocontainer.BootstrapConfig,
) miniocontainer.Container {
	containers.SkipDisabled(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cnt, term, err := Bootstrap(ctx, cfg, bootstrapCfg)
	t.Cleanup(term)

	if err != nil {
		t.Fatalf("bootstrap minio container, %s", err)

		return nil
	}

	return cnt
}

func Bootstrap(
	ctx context.Context,
	cfg *ContainerConfig,
	bootstrapCfg miniocontainer.BootstrapConfig,
) (cnt miniocontainer.Container, term func(), err error) {
	env, err := containerEnvironment(cfg)
	if err != nil {
		return nil, func() {}, err
	}

	bootstrapCfg.Logger = containerLogger(cfg)

	return miniocontainer.Bootstrap(ctx, RunContainer(cfg), env, bootstrapCfg)
}

type ContainerConfig struct {
	Containers *containers.Config
	MinioImage string
	Username   string
	Password   string
	Logger     *zerolog.Logger
}

func containerEnvironment(cfg *ContainerConfig) (containers.Config, error) {
	if cfg != nil && cfg.Containers != nil {
		return *cfg.Containers, nil
	}

	env, err := containers.LoadConfig()
	if err != nil {
		return containers.Config{}, fmt.Errorf("load containers config, %w", err)
	}

	return env, nil
}

func containerLogger(cfg *ContainerConfig) zerolog.Logger {
	if cfg != nil && cfg.Logger != nil {
		return *cfg.Logger
	}

	return containers.DefaultLogger()
}

func containerMinioImage(cfg *ContainerConfig) string {
	const defaultMinioImage = "minio/minio:RELEASE.2024-01-16T16-07-38Z"

	if cfg != nil && cfg.MinioImage != "" {
		return cfg.MinioImage
	}

	envContainerImage := os.Getenv("CONTAINERS_MINIO_IMAGE")
	if envContainerImage != "" {
		return envContainerImage
	}

	return defaultMinioImage
}

func containerUsername(cfg *ContainerConfig) string {
	const defaultUsername = "minioadmin"

	if cfg != nil && cfg.Username != "" {
		return cfg.Username
	}

	return defaultUsername
}

func containerPassword(cfg *ContainerConfig) string {
	const defaultPassword = "minioadmin"

	if cfg != nil && cfg.Password != "" {
		return cfg.Password
	}

	return defaultPassword
}

func RunContainer(cfg *ContainerConfig) miniocontainer.CreateContainerFunc {
	return func(ctx context.Context, execCtx containers.ExecutionContext) (miniocontainer.Container, error) {
		env, err := containerEnvironment(cfg)
		if err != nil {
			return nil, err
		}

		logger := containerLogger(cfg)
		minioImage := containerMinioImage(cfg)
		containerEnv := containers.ProvisionEnv(execCtx, env)

		logger.Info().
			Stringer("execution_context", execCtx).
			Str("image", minioImage).
			Msg("minio testcontainer environment configuration")
		containers.LogEnv(logger, "minio", containerEnv)

		cnt, err := miniocnt.Run(ctx,
			minioImage,
			miniocnt.WithUsername(containerUsername(cfg)),
			miniocnt.WithPassword(containerPassword(cfg)),
			testcontainers.WithEnv(containerEnv),
			testcontainers.WithLogConsumers(containers.LogConsumer(logger, "minio")),
		)
		if err != nil {
			if cnt != nil {
				_ = cnt.Terminate(context.Background())
			}

			return nil, &containers.ProvisionError{Image: minioImage, Err: err}
		}

		return container{
			minioContainer: cnt,
			env:            containerEnv,
		}, nil
	}
}

type container struct {
	minioContainer *miniocnt.MinioContainer
	env            map[string]string
}

func (c container) Connect(ctx context.Context) (*minio.Client, error) {
	endpoint, err := c.minioContainer.ConnectionString(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect to minio container, get endpoint, %w", err)
	}

	opts := &minio.Options{
		Creds: credentials.NewStaticV4(c.minioContainer.Username, c.minioContainer.Password, ""),
	}

	minioClient, err := minio.New(endpoint, opts)
	if err != nil {
		return nil, containers.NewResourceAccessError("create minio client", err)
	}

	return minioClient, nil
}

func (c container) Env() map[string]string {
	return maps.Clone(c.env)
}

func (c container) Terminate(ctx context.Context) error {
	return c.minioContainer.Terminate(ctx)
}
