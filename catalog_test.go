package containers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/amidgo/bootcontainers"
	"github.com/amidgo/bootcontainers/internal/testing/catalogtest"
	"github.com/stretchr/testify/require"
)

var (
	keyspace = containers.SchemaObject{Kind: "keyspace", Name: "CustomerService"}
	table    = containers.SchemaObject{Kind: "table", Name: "Customers"}
)

func Test_VerifySchema_Found(t *testing.T) {
	t.Parallel()

	catalog := catalogtest.New().
		With("system").
		With("customerservice", "customers", "orders")

	err := containers.VerifySchema(context.Background(), catalog, keyspace, table)
	require.NoError(t, err)

	require.Equal(t, []string{"customerservice"}, catalog.ObjectsCalls())
}

func Test_VerifySchema_NamespaceMissing(t *testing.T) {
	t.Parallel()

	catalog := catalogtest.New().With("system", "local")

	err := containers.VerifySchema(context.Background(), catalog, keyspace, table)

	var notFound *containers.SchemaNotFoundError

	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "keyspace", notFound.Kind)
	require.Equal(t, "CustomerService", notFound.Name)
	require.ErrorIs(t, err, containers.ErrSchemaNotFound)
	require.EqualError(t, err, "keyspace [CustomerService] not found")

	require.Empty(t, catalog.ObjectsCalls(), "table lookup must not run for a missing keyspace")
}

func Test_VerifySchema_ObjectMissing(t *testing.T) {
	t.Parallel()

	catalog := catalogtest.New().With("CustomerService", "Orders")

	err := containers.VerifySchema(context.Background(), catalog, keyspace, table)

	var notFound *containers.SchemaNotFoundError

	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "table", notFound.Kind)
	require.Equal(t, "Customers", notFound.Name)
	require.EqualError(t, err, "table [Customers] not found")
}

func Test_VerifySchema_CatalogErrors(t *testing.T) {
	t.Parallel()

	errCatalog := errors.New("connection reset")

	t.Run("namespaces", func(t *testing.T) {
		t.Parallel()

		catalog := catalogtest.New()
		catalog.NamespacesErr = errCatalog

		err := containers.VerifySchema(context.Background(), catalog, keyspace, table)

		var accessErr *containers.ResourceAccessError

		require.ErrorAs(t, err, &accessErr)
		require.ErrorIs(t, err, errCatalog)
		require.NotErrorIs(t, err, containers.ErrSchemaNotFound)
	})

	t.Run("objects", func(t *testing.T) {
		t.Parallel()

		catalog := catalogtest.New().With("CustomerService")
		catalog.ObjectsErr = errCatalog

		err := containers.VerifySchema(context.Background(), catalog, keyspace, table)

		var accessErr *containers.ResourceAccessError

		require.ErrorAs(t, err, &accessErr)
		require.ErrorIs(t, err, errCatalog)
	})
}

func Test_VerifySchema_NamespacesDifferingByCase(t *testing.T) {
	t.Parallel()

	catalog := catalogtest.New().
		With("User", "settings").
		With("user", "amidman")

	err := containers.VerifySchema(context.Background(), catalog,
		containers.SchemaObject{Kind: "prefix", Name: "USER"},
		containers.SchemaObject{Kind: "key", Name: "amidman"},
	)
	require.NoError(t, err)

	require.Equal(t, []string{"User", "user"}, catalog.ObjectsCalls())
}
