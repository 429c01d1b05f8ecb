package cassandracontainer_test

import (
	"context"
	"sync/atomic"

	cassandracontainer "github.com/amidgo/bootcontainers/cassandra"
	"github.com/amidgo/bootcontainers/internal/testing/catalogtest"
)

type fakeSession struct {
	*catalogtest.Catalog

	execErr  error
	executed []string
	closed   *atomic.Int64
}

func (s *fakeSession) Exec(_ context.Context, statement string) error {
	if s.execErr != nil {
		return s.execErr
	}

	s.executed = append(s.executed, statement)

	return nil
}

func (s *fakeSession) Close() {
	s.closed.Add(1)
}

type fakeContainer struct {
	session    *fakeSession
	connectErr error

	connects   atomic.Int64
	terminated atomic.Int64
}

func newFakeContainer(catalog *catalogtest.Catalog) *fakeContainer {
	return &fakeContainer{
		session: &fakeSession{
			Catalog: catalog,
			closed:  &atomic.Int64{},
		},
	}
}

func (c *fakeContainer) ContactPoint(context.Context) (cassandracontainer.ContactPoint, error) {
	return cassandracontainer.ContactPoint{Host: "localhost", Port: 32768}, nil
}

func (c *fakeContainer) Connect(context.Context) (cassandracontainer.Session, error) {
	c.connects.Add(1)

	if c.connectErr != nil {
		return nil, c.connectErr
	}

	return c.session, nil
}

func (c *fakeContainer) Env() map[string]string {
	return map[string]string{}
}

func (c *fakeContainer) Terminate(context.Context) error {
	c.terminated.Add(1)

	return nil
}

// sessionsReleased reports whether every opened session was closed.
func (c *fakeContainer) sessionsReleased() bool {
	return c.connects.Load() == c.session.closed.Load()
}
