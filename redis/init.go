package rediscontainer

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Init connects to cnt and sets every initial key without expiration.
// term closes the client and terminates the container, call it even when err is not nil.
func Init(
	ctx context.Context,
	cnt Container,
	logger zerolog.Logger,
	initial map[string]any,
) (client *redis.Client, term func(), err error) {
	term = func() {
		terminateErr := cnt.Terminate(context.Background())
		if terminateErr != nil {
			logger.Warn().Err(terminateErr).Msg("failed to terminate redis container")
		}
	}

	client, err = cnt.Connect(ctx)
	if err != nil {
		return nil, term, fmt.Errorf("connect to redis container, %w", err)
	}

	terminate := term
	term = func() {
		_ = client.Close()

		terminate()
	}

	err = seed(ctx, client, initial)
	if err != nil {
		return client, term, err
	}

	return client, term, nil
}

func seed(ctx context.Context, client redis.Cmdable, initial map[string]any) error {
	for _, key := range slices.Sorted(maps.Keys(initial)) {
		err := client.Set(ctx, key, initial[key], 0).Err()
		if err != nil {
			return fmt.Errorf("set %s key, %w", key, err)
		}
	}

	return nil
}
