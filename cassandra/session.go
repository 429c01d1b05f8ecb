package cassandracontainer

import (
	"context"
	"fmt"
	"time"

	"github.com/amidgo/bootcontainers"
	"github.com/gocql/gocql"
)

const (
	DefaultDatacenter = "datacenter1"
	defaultTimeout    = 30 * time.Second
)

type SessionConfig struct {
	Datacenter string
	Timeout    time.Duration
}

func (c SessionConfig) datacenter() string {
	if c.Datacenter != "" {
		return c.Datacenter
	}

	return DefaultDatacenter
}

func (c SessionConfig) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}

	return defaultTimeout
}

// Connect opens a gocql session against a single contact point.
func Connect(_ context.Context, contactPoint ContactPoint, cfg SessionConfig) (Session, error) {
	cluster := gocql.NewCluster(contactPoint.Host)
	cluster.Port = contactPoint.Port
	cluster.Timeout = cfg.timeout()
	cluster.ConnectTimeout = cfg.timeout()
	cluster.Consistency = gocql.One
	cluster.PoolConfig.HostSelectionPolicy = gocql.DCAwareRoundRobinPolicy(cfg.datacenter())

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, containers.NewResourceAccessError(
			fmt.Sprintf("open cassandra session to %s", contactPoint),
			err,
		)
	}

	return gocqlSession{session: session}, nil
}

type gocqlSession struct {
	session *gocql.Session
}

func (s gocqlSession) Exec(ctx context.Context, statement string) error {
	return s.session.Query(statement).WithContext(ctx).Exec()
}

func (s gocqlSession) Namespaces(ctx context.Context) ([]string, error) {
	return s.scanNames(ctx, "SELECT keyspace_name FROM system_schema.keyspaces")
}

func (s gocqlSession) Objects(ctx context.Context, keyspace string) ([]string, error) {
	return s.scanNames(ctx, "SELECT table_name FROM system_schema.tables WHERE keyspace_name = ?", keyspace)
}

func (s gocqlSession) Close() {
	s.session.Close()
}

func (s gocqlSession) scanNames(ctx context.Context, query string, values ...any) ([]string, error) {
	iter := s.session.Query(query, values...).WithContext(ctx).Iter()

	var (
		names []string
		name  string
	)

	for iter.Scan(&name) {
		names = append(names, name)
	}

	err := iter.Close()
	if err != nil {
		return nil, fmt.Errorf("query %q, %w", query, err)
	}

	return names, nil
}
