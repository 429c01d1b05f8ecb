package containers

import (
	"strconv"
	"strings"
)

type ExecutionContext uint8

const (
	ExecutionContextLocal ExecutionContext = iota
	ExecutionContextCI
)

func (e ExecutionContext) String() string {
	switch e {
	case ExecutionContextLocal:
		return "local"
	case ExecutionContextCI:
		return "ci"
	default:
		return "unknown(" + strconv.FormatUint(uint64(e), 10) + ")"
	}
}

const (
	EnvHubImageNamePrefix = "TESTCONTAINERS_HUB_IMAGE_NAME_PREFIX"
	EnvPullPauseTimeout   = "TESTCONTAINERS_PULL_PAUSE_TIMEOUT"
	EnvRyukDisabled       = "TESTCONTAINERS_RYUK_DISABLED"
)

// ProvisionEnv returns the environment applied to every provisioned container.
// The pull pause timeout is always present, plus either the registry prefix (CI)
// or the ryuk flag (local), never both.
func ProvisionEnv(execCtx ExecutionContext, cfg Config) map[string]string {
	env := map[string]string{
		EnvPullPauseTimeout: strconv.Itoa(cfg.PullPauseTimeout),
	}

	switch execCtx {
	case ExecutionContextCI:
		env[EnvHubImageNamePrefix] = cfg.RegistryPrefix
	default:
		env[EnvRyukDisabled] = strconv.FormatBool(cfg.RyukDisabled)
	}

	return env
}

// Profiles is the set of active profile names.
type Profiles map[string]struct{}

func NewProfiles(names ...string) Profiles {
	profiles := make(Profiles, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		profiles[name] = struct{}{}
	}

	return profiles
}

func (p Profiles) Has(name string) bool {
	_, ok := p[name]

	return ok
}
