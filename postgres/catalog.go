package postgrescontainer

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/amidgo/bootcontainers"
)

const (
	KindSchema = "schema"
	KindTable  = "table"
)

// Schema names the schema and table that must exist after initialization.
type Schema struct {
	Schema string
	Table  string
}

type catalog struct {
	db *sql.DB
}

// Catalog lists schemas and their tables from information_schema.
func Catalog(db *sql.DB) containers.Catalog {
	return catalog{db: db}
}

func (c catalog) Namespaces(ctx context.Context) ([]string, error) {
	return c.scanNames(ctx, "SELECT schema_name FROM information_schema.schemata")
}

func (c catalog) Objects(ctx context.Context, schema string) ([]string, error) {
	return c.scanNames(ctx, "SELECT table_name FROM information_schema.tables WHERE table_schema = $1", schema)
}

func (c catalog) scanNames(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %q, %w", query, err)
	}
	defer rows.Close()

	var names []string

	for rows.Next() {
		var name string

		err := rows.Scan(&name)
		if err != nil {
			return nil, fmt.Errorf("scan %q, %w", query, err)
		}

		names = append(names, name)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate %q, %w", query, err)
	}

	return names, nil
}

// Verify checks schema.Schema and then schema.Table exist, case-insensitively.
func Verify(ctx context.Context, pgCnt Container, schema Schema) error {
	db, err := pgCnt.Connect(ctx, sslDisabled)
	if err != nil {
		return fmt.Errorf("connect to db, %w", err)
	}
	defer db.Close()

	return containers.VerifySchema(ctx, Catalog(db),
		containers.SchemaObject{Kind: KindSchema, Name: schema.Schema},
		containers.SchemaObject{Kind: KindTable, Name: schema.Table},
	)
}
