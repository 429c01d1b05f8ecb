package miniocontainer

import (
	"context"

	"github.com/amidgo/bootcontainers"
	"github.com/minio/minio-go/v7"
)

type Container interface {
	Connect(ctx context.Context) (*minio.Client, error)
	Env() map[string]string
	Terminate(ctx context.Context) error
}

type CreateContainerFunc func(ctx context.Context, execCtx containers.ExecutionContext) (Container, error)
