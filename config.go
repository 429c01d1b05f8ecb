package containers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is read once, before provisioning, from CONTAINERS_* environment variables.
type Config struct {
	CI               string   `env:"CI"`
	ActiveProfiles   []string `env:"CONTAINERS_ACTIVE_PROFILES" envSeparator:","`
	DebugProfile     string   `env:"CONTAINERS_DEBUG_PROFILE" envDefault:"debug"`
	RegistryPrefix   string   `env:"CONTAINERS_REGISTRY_PREFIX" envDefault:"harbor-repo.vmware.com/dockerhub-proxy-cache/springci/"`
	PullPauseTimeout int      `env:"CONTAINERS_PULL_PAUSE_TIMEOUT" envDefault:"5"`
	RyukDisabled     bool     `env:"CONTAINERS_RYUK_DISABLED" envDefault:"true"`
	DisableTesting   bool     `env:"CONTAINERS_DISABLE_TESTING"`
	LogLevel         string   `env:"CONTAINERS_LOG_LEVEL" envDefault:"info"`

	Cassandra CassandraConfig
}

type CassandraConfig struct {
	Version    string        `env:"CONTAINERS_CASSANDRA_VERSION" envDefault:"3.11.15"`
	Datacenter string        `env:"CONTAINERS_CASSANDRA_DATACENTER" envDefault:"datacenter1"`
	Timeout    time.Duration `env:"CONTAINERS_CASSANDRA_TIMEOUT" envDefault:"30s"`
}

func LoadConfig() (Config, error) {
	return loadConfig(env.Options{})
}

// LoadConfigFrom parses the configuration from the given variables instead of the process environment.
func LoadConfigFrom(environment map[string]string) (Config, error) {
	return loadConfig(env.Options{Environment: environment})
}

func loadConfig(opts env.Options) (Config, error) {
	cfg := Config{}

	err := env.ParseWithOptions(&cfg, opts)
	if err != nil {
		return Config{}, fmt.Errorf("parse containers config, %w", err)
	}

	if cfg.PullPauseTimeout < 0 {
		return Config{}, fmt.Errorf("parse containers config, negative pull pause timeout %d", cfg.PullPauseTimeout)
	}

	return cfg, nil
}

func (c Config) ExecutionContext() ExecutionContext {
	ci, err := strconv.ParseBool(c.CI)
	if err == nil && ci {
		return ExecutionContextCI
	}

	return ExecutionContextLocal
}

func (c Config) Profiles() Profiles {
	return NewProfiles(c.ActiveProfiles...)
}
