package main

import (
	"github.com/amidgo/bootcontainers"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	logLevel string
}

func newRootCmd(bootstrap cassandraBootstrapFunc) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "bootcontainers",
		Short:         "Run data store containers for local development",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level, overrides CONTAINERS_LOG_LEVEL")

	rootCmd.AddCommand(newCassandraCmd(opts, bootstrap))

	return rootCmd
}

func (o *rootOptions) config(profiles []string) (containers.Config, zerolog.Logger, error) {
	cfg, err := containers.LoadConfig()
	if err != nil {
		return containers.Config{}, zerolog.Logger{}, err
	}

	cfg.ActiveProfiles = append(cfg.ActiveProfiles, profiles...)

	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}

	return cfg, containers.ConfigLogger(cfg), nil
}
