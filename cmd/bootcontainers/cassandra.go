package main

import (
	"context"
	"errors"
	"fmt"

	cassandracontainer "github.com/amidgo/bootcontainers/cassandra"
	cassandrarunner "github.com/amidgo/bootcontainers/cassandra/runner"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type cassandraBootstrapFunc func(
	ctx context.Context,
	cfg *cassandrarunner.Config,
	bootstrapCfg cassandracontainer.BootstrapConfig,
) (cassandracontainer.Container, func(), error)

var cassandraBootstrap cassandraBootstrapFunc = cassandrarunner.Bootstrap

var (
	errTableWithoutKeyspace = errors.New("--table requires --keyspace")
	errKeyspaceWithoutTable = errors.New("--keyspace requires --table")
)

type cassandraOptions struct {
	profiles []string
	schema   string
	keyspace string
	table    string
	image    string
}

func newCassandraCmd(root *rootOptions, bootstrap cassandraBootstrapFunc) *cobra.Command {
	opts := &cassandraOptions{}

	cmd := &cobra.Command{
		Use:   "cassandra",
		Short: "Run a cassandra container until interrupted",
		Long: `Provisions a cassandra container and prints its contact point.

With the debug profile active the schema script is applied and the
keyspace and table are verified before the contact point is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCassandra(cmd, root, opts, bootstrap)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.profiles, "profile", "p", nil, "Active profiles, added to CONTAINERS_ACTIVE_PROFILES")
	cmd.Flags().StringVar(&opts.schema, "schema", "", "CQL script applied under the debug profile")
	cmd.Flags().StringVar(&opts.keyspace, "keyspace", "", "Keyspace verified under the debug profile")
	cmd.Flags().StringVar(&opts.table, "table", "", "Table verified inside --keyspace")
	cmd.Flags().StringVar(&opts.image, "image", "", "Image reference, overrides the versioned default")

	return cmd
}

func runCassandra(
	cmd *cobra.Command,
	root *rootOptions,
	opts *cassandraOptions,
	bootstrap cassandraBootstrapFunc,
) error {
	switch {
	case opts.table != "" && opts.keyspace == "":
		return errTableWithoutKeyspace
	case opts.keyspace != "" && opts.table == "":
		return errKeyspaceWithoutTable
	}

	env, logger, err := root.config(opts.profiles)
	if err != nil {
		return fmt.Errorf("load config, %w", err)
	}

	bootstrapCfg := cassandracontainer.BootstrapConfig{
		Schema: cassandracontainer.Schema{
			Keyspace: opts.keyspace,
			Table:    opts.table,
		},
	}

	if opts.schema != "" {
		bootstrapCfg.Script = cassandracontainer.ScriptPath(opts.schema)
	}

	ctx := cmd.Context()

	cnt, term, err := bootstrap(ctx,
		&cassandrarunner.Config{
			Containers: &env,
			Image:      opts.image,
			Logger:     &logger,
		},
		bootstrapCfg,
	)
	defer term()

	if err != nil {
		return fmt.Errorf("bootstrap cassandra, %w", err)
	}

	contactPoint, err := cnt.ContactPoint(ctx)
	if err != nil {
		return fmt.Errorf("resolve contact point, %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), contactPoint.String())

	waitInterrupt(ctx, logger)

	return nil
}

func waitInterrupt(ctx context.Context, logger zerolog.Logger) {
	logger.Info().Msg("container is running, press ctrl+c to terminate")

	<-ctx.Done()

	logger.Info().Msg("terminating container")
}
