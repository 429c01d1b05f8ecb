package cassandracontainer

import (
	"context"

	"github.com/amidgo/bootcontainers"
)

// Session is a short lived CQL session. Callers close it as soon as they are done.
type Session interface {
	containers.Catalog

	Exec(ctx context.Context, statement string) error
	Close()
}

// Container is a started Cassandra server.
type Container interface {
	// ContactPoint resolves the current host and mapped port on every call.
	ContactPoint(ctx context.Context) (ContactPoint, error)
	Connect(ctx context.Context) (Session, error)
	// Env returns the environment the container was provisioned with.
	Env() map[string]string
	Terminate(ctx context.Context) error
}

type CreateContainerFunc func(ctx context.Context, execCtx containers.ExecutionContext) (Container, error)
