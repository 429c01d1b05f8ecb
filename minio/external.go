package miniocontainer

import (
	"context"
	"os"
	"testing"

	"github.com/amidgo/bootcontainers"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

const endpointEnvName = "CONTAINERS_MINIO_ENDPOINT"

var externalReusable = NewReusable(ExternalContainer(nil))

func ExternalReusable() *Reusable {
	return externalReusable
}

func UseExternalForTestingConfig(
	t *testing.T,
	cfg *ExternalContainerConfig,
	buckets ...Bucket,
) *minio.Client {
	containers.SkipDisabled(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	minioClient, term, err := UseExternalConfig(ctx, cfg, buckets...)
	t.Cleanup(term)

	if err != nil {
		t.Fatal(err)

		return nil
	}

	return minioClient
}

func UseExternalForTesting(t *testing.T, buckets ...Bucket) *minio.Client {
	return UseExternalForTestingConfig(t, nil, buckets...)
}

func UseExternalConfig(
	ctx context.Context,
	cfg *ExternalContainerConfig,
	buckets ...Bucket,
) (minioClient *minio.Client, term func(), err error) {
	cnt, err := ExternalContainer(cfg)(ctx, containers.ExecutionContextLocal)
	if err != nil {
		return nil, func() {}, err
	}

	return Init(ctx, cnt, zerolog.Nop(), buckets...)
}

func UseExternal(
	ctx context.Context,
	buckets ...Bucket,
) (minioClient *minio.Client, term func(), err error) {
	return UseExternalConfig(ctx, nil, buckets...)
}

type ExternalContainerConfig struct {
	Endpoint string
	User     string
	Password string
}

func externalContainerUser(cfg *ExternalContainerConfig) string {
	const defaultUser = "minio"

	if cfg != nil && cfg.User != "" {
		return cfg.User
	}

	return defaultUser
}

func externalContainerPassword(cfg *ExternalContainerConfig) string {
	const defaultPassword = "minio"

	if cfg != nil && cfg.Password != "" {
		return cfg.Password
	}

	return defaultPassword
}

func externalContainerEndpoint(cfg *ExternalContainerConfig) string {
	if cfg != nil && cfg.Endpoint != "" {
		return cfg.Endpoint
	}

	return os.Getenv(endpointEnvName)
}

func ExternalContainer(cfg *ExternalContainerConfig) CreateContainerFunc {
	return func(context.Context, containers.ExecutionContext) (Container, error) {
		endpoint := externalContainerEndpoint(cfg)
		if endpoint == "" {
			return nil, containers.NewResourceNotFoundError(
				"endpoint is empty and environment variable "+endpointEnvName+" is empty",
				nil,
			)
		}

		return externalContainer{
			endpoint: endpoint,
			userName: externalContainerUser(cfg),
			password: externalContainerPassword(cfg),
		}, nil
	}
}

type externalContainer struct {
	endpoint string
	userName string
	password string
}

func (externalContainer) Terminate(context.Context) error {
	return nil
}

func (externalContainer) Env() map[string]string {
	return map[string]string{}
}

func (e externalContainer) Connect(context.Context) (*minio.Client, error) {
	client, err := minio.New(e.endpoint,
		&minio.Options{
			Creds:           credentials.NewStaticV4(e.userName, e.password, ""),
			TrailingHeaders: true,
		},
	)
	if err != nil {
		return nil, containers.NewResourceAccessError("create minio client", err)
	}

	return client, nil
}
