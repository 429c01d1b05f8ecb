package containers_test

import (
	"testing"

	"github.com/amidgo/bootcontainers"
)

func Test_Skipped(t *testing.T) {
	t.Setenv("CONTAINERS_DISABLE_TESTING", "true")

	containers.SkipDisabled(t)

	t.Fatal("expected test is skipped")
}

func Test_NotSkipped(t *testing.T) {
	t.Setenv("CONTAINERS_DISABLE_TESTING", "false")

	containers.SkipDisabled(t)
}

func Test_ConfigForTesting(t *testing.T) {
	t.Setenv("CI", "true")
	t.Setenv("CONTAINERS_ACTIVE_PROFILES", "debug")

	cfg := containers.ConfigForTesting(t)

	if cfg.ExecutionContext() != containers.ExecutionContextCI {
		t.Fatalf("expected ci execution context, actual %s", cfg.ExecutionContext())
	}

	if !cfg.Profiles().Has(cfg.DebugProfile) {
		t.Fatalf("expected %s profile to be active", cfg.DebugProfile)
	}
}
