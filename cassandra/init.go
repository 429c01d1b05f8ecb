package cassandracontainer

import (
	"context"
	"fmt"

	"github.com/amidgo/bootcontainers"
	"github.com/rs/zerolog"
)

// Initialize applies script through a session that is closed before returning.
func Initialize(ctx context.Context, cnt Container, script Script) error {
	statements, err := script.Statements()
	if err != nil {
		return fmt.Errorf("load cql script, %w", err)
	}

	session, err := cnt.Connect(ctx)
	if err != nil {
		return fmt.Errorf("connect to cassandra, %w", err)
	}
	defer session.Close()

	for i, statement := range statements {
		err := session.Exec(ctx, statement)
		if err != nil {
			return containers.NewResourceAccessError(
				fmt.Sprintf("exec statement %d %q", i+1, statement),
				err,
			)
		}
	}

	return nil
}

// Init applies every script to cnt. term terminates the container
// and must be called even when err is not nil.
func Init(
	ctx context.Context,
	cnt Container,
	logger zerolog.Logger,
	scripts ...Script,
) (term func(), err error) {
	term = func() {
		terminateErr := cnt.Terminate(context.Background())
		if terminateErr != nil {
			logger.Warn().Err(terminateErr).Msg("failed to terminate cassandra container")
		}
	}

	for _, script := range scripts {
		err = Initialize(ctx, cnt, script)
		if err != nil {
			return term, err
		}
	}

	return term, nil
}
