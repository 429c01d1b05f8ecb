package cassandracontainer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/amidgo/bootcontainers"
	cassandracontainer "github.com/amidgo/bootcontainers/cassandra"
	"github.com/amidgo/bootcontainers/internal/testing/catalogtest"
	"github.com/stretchr/testify/require"
)

var customerSchema = cassandracontainer.Schema{
	Keyspace: "CustomerService",
	Table:    "Customers",
}

func Test_Verify_Found(t *testing.T) {
	t.Parallel()

	cnt := newFakeContainer(catalogtest.New().
		With("system_schema", "keyspaces", "tables").
		With("customerservice", "customers"),
	)

	err := cassandracontainer.Verify(context.Background(), cnt, customerSchema)
	require.NoError(t, err)
	require.True(t, cnt.sessionsReleased())
}

func Test_Verify_KeyspaceNotFound(t *testing.T) {
	t.Parallel()

	catalog := catalogtest.New().With("system_schema", "keyspaces")
	cnt := newFakeContainer(catalog)

	err := cassandracontainer.Verify(context.Background(), cnt, customerSchema)

	var notFound *containers.SchemaNotFoundError

	require.ErrorAs(t, err, &notFound)
	require.Equal(t, cassandracontainer.KindKeyspace, notFound.Kind)
	require.Equal(t, "CustomerService", notFound.Name)
	require.Empty(t, catalog.ObjectsCalls())
	require.True(t, cnt.sessionsReleased())
}

func Test_Verify_TableNotFound(t *testing.T) {
	t.Parallel()

	catalog := catalogtest.New().With("CustomerService", "Orders")
	cnt := newFakeContainer(catalog)

	err := cassandracontainer.Verify(context.Background(), cnt, customerSchema)

	var notFound *containers.SchemaNotFoundError

	require.ErrorAs(t, err, &notFound)
	require.Equal(t, cassandracontainer.KindTable, notFound.Kind)
	require.Equal(t, "Customers", notFound.Name)
	require.EqualError(t, err, "table [Customers] not found")
	require.Equal(t, []string{"CustomerService"}, catalog.ObjectsCalls())
	require.True(t, cnt.sessionsReleased())
}

func Test_Verify_CatalogError_ReleasesSession(t *testing.T) {
	t.Parallel()

	errQuery := errors.New("read timeout")

	catalog := catalogtest.New()
	catalog.NamespacesErr = errQuery

	cnt := newFakeContainer(catalog)

	err := cassandracontainer.Verify(context.Background(), cnt, customerSchema)
	require.ErrorIs(t, err, errQuery)
	require.NotErrorIs(t, err, containers.ErrSchemaNotFound)
	require.True(t, cnt.sessionsReleased())
}
