package rediscontainer

import (
	"context"
	"os"
	"testing"

	"github.com/amidgo/bootcontainers"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const urlEnvName = "CONTAINERS_REDIS_URL"

func UseExternalForTesting(t *testing.T, initial map[string]any) *redis.Client {
	containers.SkipDisabled(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	client, term, err := UseExternal(ctx, "", initial)
	t.Cleanup(term)

	if err != nil {
		t.Fatal(err)

		return nil
	}

	return client
}

// UseExternal seeds the server at url, or at CONTAINERS_REDIS_URL when url is empty.
func UseExternal(
	ctx context.Context,
	url string,
	initial map[string]any,
) (client *redis.Client, term func(), err error) {
	cnt, err := ExternalContainer(url)(ctx, containers.ExecutionContextLocal)
	if err != nil {
		return nil, func() {}, err
	}

	return Init(ctx, cnt, zerolog.Nop(), initial)
}

func ExternalContainer(url string) CreateContainerFunc {
	return func(context.Context, containers.ExecutionContext) (Container, error) {
		url := url
		if url == "" {
			url = os.Getenv(urlEnvName)
		}

		if url == "" {
			return nil, containers.NewResourceNotFoundError(
				"url is empty and environment variable "+urlEnvName+" is empty",
				nil,
			)
		}

		opts, err := redis.ParseURL(url)
		if err != nil {
			return nil, containers.NewResourceAccessError("parse redis url", err)
		}

		return externalContainer{opts: opts}, nil
	}
}

type externalContainer struct {
	opts *redis.Options
}

func (externalContainer) Terminate(context.Context) error {
	return nil
}

func (externalContainer) Env() map[string]string {
	return map[string]string{}
}

func (e externalContainer) Connect(context.Context) (*redis.Client, error) {
	opts := *e.opts

	return redis.NewClient(&opts), nil
}
