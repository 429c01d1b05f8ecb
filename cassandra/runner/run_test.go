package cassandrarunner_test

import (
	"context"
	"testing"

	"github.com/amidgo/bootcontainers"
	cassandracontainer "github.com/amidgo/bootcontainers/cassandra"
	cassandrarunner "github.com/amidgo/bootcontainers/cassandra/runner"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var customerSchema = cassandracontainer.Schema{
	Keyspace: "customerservice",
	Table:    "customers",
}

func Test_ContainerEnv(t *testing.T) {
	t.Parallel()

	env := containers.Config{
		RegistryPrefix:   "mirror.local/",
		PullPauseTimeout: 5,
		RyukDisabled:     true,
		Cassandra:        containers.CassandraConfig{Datacenter: "dc2"},
	}

	require.Equal(t, map[string]string{
		containers.EnvHubImageNamePrefix: "mirror.local/",
		containers.EnvPullPauseTimeout:   "5",
		"CASSANDRA_DC":                   "dc2",
	}, cassandrarunner.ContainerEnv(containers.ExecutionContextCI, env))

	require.Equal(t, map[string]string{
		containers.EnvRyukDisabled:     "true",
		containers.EnvPullPauseTimeout: "5",
		"CASSANDRA_DC":                 "dc2",
	}, cassandrarunner.ContainerEnv(containers.ExecutionContextLocal, env))
}

func Test_ImageReference(t *testing.T) {
	t.Parallel()

	require.Equal(t, "cassandra:3.11.15", cassandrarunner.ImageReference(""))
	require.Equal(t, "cassandra:4.1.3", cassandrarunner.ImageReference("4.1.3"))
}

func Test_Bootstrap_DebugProfile(t *testing.T) {
	t.Parallel()

	env := containers.ConfigForTesting(t)
	env.ActiveProfiles = []string{env.DebugProfile}

	logger := zerolog.New(zerolog.NewTestWriter(t))

	cnt := cassandrarunner.BootstrapForTesting(t,
		&cassandrarunner.Config{
			Containers: &env,
			Logger:     &logger,
		},
		cassandracontainer.BootstrapConfig{
			Script: cassandracontainer.ScriptPath("testdata/schema.cql"),
			Schema: customerSchema,
		},
	)

	contactPoint, err := cnt.ContactPoint(context.Background())
	require.NoError(t, err)
	require.NotEqual(t, 9042, contactPoint.Port)

	require.Contains(t, cnt.Env(), containers.EnvPullPauseTimeout)
}

func Test_Run_VerifyAfterScripts(t *testing.T) {
	t.Parallel()

	cnt := cassandrarunner.RunForTesting(t, cassandracontainer.ScriptPath("testdata/schema.cql"))

	err := cassandracontainer.Verify(context.Background(), cnt, customerSchema)
	require.NoError(t, err)

	err = cassandracontainer.Verify(context.Background(), cnt, cassandracontainer.Schema{
		Keyspace: "CustomerService",
		Table:    "Orders",
	})
	require.ErrorIs(t, err, containers.ErrSchemaNotFound)
}
