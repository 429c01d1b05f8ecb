package rediscontainer

import (
	"context"

	"github.com/amidgo/bootcontainers"
	"github.com/redis/go-redis/v9"
)

type Container interface {
	Connect(ctx context.Context) (*redis.Client, error)
	Env() map[string]string
	Terminate(ctx context.Context) error
}

type CreateContainerFunc func(ctx context.Context, execCtx containers.ExecutionContext) (Container, error)
