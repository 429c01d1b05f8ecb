package postgrescontainer

import (
	"context"
	"database/sql"

	"github.com/amidgo/bootcontainers"
)

// Container is a started PostgreSQL server.
type Container interface {
	// Connect opens a pool, args are appended to the connection string query.
	Connect(ctx context.Context, args ...string) (*sql.DB, error)
	Env() map[string]string
	Terminate(ctx context.Context) error
}

type CreateContainerFunc func(ctx context.Context, execCtx containers.ExecutionContext) (Container, error)

const sslDisabled = "sslmode=disable"
