package containers_test

import (
	"testing"

	"github.com/amidgo/bootcontainers"
	"github.com/stretchr/testify/require"
)

func Test_ProvisionEnv(t *testing.T) {
	t.Parallel()

	cfg := containers.Config{
		RegistryPrefix:   "mirror.local/springci/",
		PullPauseTimeout: 5,
		RyukDisabled:     true,
	}

	t.Run("ci", func(t *testing.T) {
		t.Parallel()

		env := containers.ProvisionEnv(containers.ExecutionContextCI, cfg)

		require.Equal(t, map[string]string{
			containers.EnvHubImageNamePrefix: "mirror.local/springci/",
			containers.EnvPullPauseTimeout:   "5",
		}, env)
	})

	t.Run("local", func(t *testing.T) {
		t.Parallel()

		env := containers.ProvisionEnv(containers.ExecutionContextLocal, cfg)

		require.Equal(t, map[string]string{
			containers.EnvRyukDisabled:     "true",
			containers.EnvPullPauseTimeout: "5",
		}, env)
	})

	t.Run("branches never mix", func(t *testing.T) {
		t.Parallel()

		for _, execCtx := range []containers.ExecutionContext{containers.ExecutionContextLocal, containers.ExecutionContextCI} {
			env := containers.ProvisionEnv(execCtx, cfg)

			_, hasPrefix := env[containers.EnvHubImageNamePrefix]
			_, hasRyuk := env[containers.EnvRyukDisabled]

			require.Contains(t, env, containers.EnvPullPauseTimeout, execCtx.String())
			require.Len(t, env, 2, execCtx.String())
			require.NotEqual(t, hasPrefix, hasRyuk, execCtx.String())
		}
	})
}

func Test_ExecutionContext_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "local", containers.ExecutionContextLocal.String())
	require.Equal(t, "ci", containers.ExecutionContextCI.String())
	require.Equal(t, "unknown(7)", containers.ExecutionContext(7).String())
}

func Test_Profiles(t *testing.T) {
	t.Parallel()

	profiles := containers.NewProfiles("debug", " ", "", " cassandra ")

	require.Len(t, profiles, 2)
	require.True(t, profiles.Has("debug"))
	require.True(t, profiles.Has("cassandra"))
	require.False(t, profiles.Has(""))

	var empty containers.Profiles

	require.False(t, empty.Has("debug"))
}
