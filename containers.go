// Package containers provisions data store containers for integration tests.
//
// Every backend package follows the same bootstrap: provision the container with an
// environment chosen by the ExecutionContext, then, only when the debug profile is
// active, initialize its schema and verify the expected catalog entities exist.
package containers

import (
	"testing"
)

// SkipDisabled skips t when CONTAINERS_DISABLE_TESTING is set, for machines without a container engine.
func SkipDisabled(t *testing.T) {
	t.Helper()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load containers config, %s", err)
	}

	if cfg.DisableTesting {
		t.Skip("test skipped because CONTAINERS_DISABLE_TESTING is set")
	}
}

// ConfigForTesting loads the configuration and fails t on error.
func ConfigForTesting(t *testing.T) Config {
	t.Helper()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load containers config, %s", err)
	}

	return cfg
}
