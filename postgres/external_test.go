package postgrescontainer

import (
	"context"
	"testing"

	"github.com/amidgo/bootcontainers"
	"github.com/stretchr/testify/require"
)

func Test_ExternalContainer_EmptyConnectionString(t *testing.T) {
	t.Setenv(connectionStringEnvName, "")

	_, err := ExternalContainer(nil)(context.Background(), containers.ExecutionContextLocal)

	var notFound *containers.ResourceNotFoundError

	require.ErrorAs(t, err, &notFound)
}

func Test_ExternalContainer_ConfigOverridesEnv(t *testing.T) {
	t.Setenv(connectionStringEnvName, "postgres://env")

	pgCnt, err := ExternalContainer(&ExternalContainerConfig{ConnectionString: "postgres://cfg"})(
		context.Background(),
		containers.ExecutionContextLocal,
	)
	require.NoError(t, err)

	ext := pgCnt.(externalContainer)
	require.Equal(t, "postgres://cfg", ext.connectionString)
	require.Equal(t, "pgx", ext.driverName)
	require.Empty(t, pgCnt.Env())
	require.NoError(t, pgCnt.Terminate(context.Background()))
}

func Test_ExternalContainer_DataSourceName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name             string
		connectionString string
		args             []string
		expected         string
	}{
		{
			name:             "no args",
			connectionString: "postgres://admin@localhost/test",
			expected:         "postgres://admin@localhost/test",
		},
		{
			name:             "first query param",
			connectionString: "postgres://admin@localhost/test",
			args:             []string{sslDisabled, "search_path=reuse1"},
			expected:         "postgres://admin@localhost/test?sslmode=disable&search_path=reuse1",
		},
		{
			name:             "existing query",
			connectionString: "postgres://admin@localhost/test?application_name=tests",
			args:             []string{sslDisabled},
			expected:         "postgres://admin@localhost/test?application_name=tests&sslmode=disable",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ext := externalContainer{connectionString: tc.connectionString}

			require.Equal(t, tc.expected, ext.dataSourceName(tc.args...))
		})
	}
}

func Test_NewBootstrap_SchemaWithoutTable_SkipsVerify(t *testing.T) {
	t.Parallel()

	b := NewBootstrap(nil, BootstrapConfig{Schema: Schema{Schema: "public"}})
	require.Nil(t, b.Verify)

	b = NewBootstrap(nil, BootstrapConfig{Schema: Schema{Schema: "public", Table: "users"}})
	require.NotNil(t, b.Verify)
}
