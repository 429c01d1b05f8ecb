// Bootcontainers starts a throwaway data store container for local development
// and keeps it running until interrupted.
//
// Usage:
//
//	bootcontainers cassandra
//	bootcontainers cassandra --profile debug --schema schema.cql --keyspace shop --table orders
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd(cassandraBootstrap).ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		stop()
		os.Exit(1)
	}
}
