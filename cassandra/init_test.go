package cassandracontainer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/amidgo/bootcontainers"
	cassandracontainer "github.com/amidgo/bootcontainers/cassandra"
	"github.com/amidgo/bootcontainers/internal/testing/catalogtest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func Test_Initialize(t *testing.T) {
	t.Parallel()

	cnt := newFakeContainer(catalogtest.New())

	err := cassandracontainer.Initialize(context.Background(), cnt,
		cassandracontainer.ScriptString("CREATE KEYSPACE ks WITH REPLICATION = {'class':'SimpleStrategy','replication_factor':1}; CREATE TABLE ks.t (id int PRIMARY KEY);"),
	)
	require.NoError(t, err)

	require.Equal(t, []string{
		"CREATE KEYSPACE ks WITH REPLICATION = {'class':'SimpleStrategy','replication_factor':1}",
		"CREATE TABLE ks.t (id int PRIMARY KEY)",
	}, cnt.session.executed)
	require.True(t, cnt.sessionsReleased())
}

func Test_Initialize_ExecError_ReleasesSession(t *testing.T) {
	t.Parallel()

	errExec := errors.New("SyntaxException")

	cnt := newFakeContainer(catalogtest.New())
	cnt.session.execErr = errExec

	err := cassandracontainer.Initialize(context.Background(), cnt, cassandracontainer.ScriptString("CREATE TABLE;"))

	var accessErr *containers.ResourceAccessError

	require.ErrorAs(t, err, &accessErr)
	require.ErrorIs(t, err, errExec)
	require.Equal(t, int64(1), cnt.connects.Load())
	require.True(t, cnt.sessionsReleased())
}

func Test_Initialize_ConnectError(t *testing.T) {
	t.Parallel()

	errConnect := errors.New("no hosts available")

	cnt := newFakeContainer(catalogtest.New())
	cnt.connectErr = errConnect

	err := cassandracontainer.Initialize(context.Background(), cnt, cassandracontainer.ScriptString("USE ks;"))
	require.ErrorIs(t, err, errConnect)
}

func Test_Initialize_ScriptError_DoesNotConnect(t *testing.T) {
	t.Parallel()

	cnt := newFakeContainer(catalogtest.New())

	err := cassandracontainer.Initialize(context.Background(), cnt, cassandracontainer.ScriptPath("testdata/missing.cql"))

	var notFound *containers.ResourceNotFoundError

	require.ErrorAs(t, err, &notFound)
	require.Zero(t, cnt.connects.Load())
}

func Test_Init_Term(t *testing.T) {
	t.Parallel()

	cnt := newFakeContainer(catalogtest.New())

	term, err := cassandracontainer.Init(context.Background(), cnt, zerolog.Nop(),
		cassandracontainer.ScriptString("USE ks;"),
		cassandracontainer.ScriptString("SELECT * FROM t;"),
	)
	require.NoError(t, err)
	require.Equal(t, []string{"USE ks", "SELECT * FROM t"}, cnt.session.executed)
	require.Zero(t, cnt.terminated.Load())

	term()

	require.Equal(t, int64(1), cnt.terminated.Load())
}
