package cassandracontainer

import (
	"context"
	"fmt"

	"github.com/amidgo/bootcontainers"
)

const (
	KindKeyspace = "keyspace"
	KindTable    = "table"
)

// Schema names the keyspace and table that must exist after initialization.
type Schema struct {
	Keyspace string
	Table    string
}

// Verify fails with a *containers.SchemaNotFoundError naming the keyspace or the table,
// whichever is missing first. Names are compared case-insensitively.
func Verify(ctx context.Context, cnt Container, schema Schema) error {
	session, err := cnt.Connect(ctx)
	if err != nil {
		return fmt.Errorf("connect to cassandra, %w", err)
	}
	defer session.Close()

	return containers.VerifySchema(ctx, session,
		containers.SchemaObject{Kind: KindKeyspace, Name: schema.Keyspace},
		containers.SchemaObject{Kind: KindTable, Name: schema.Table},
	)
}
