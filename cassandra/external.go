package cassandracontainer

import (
	"context"
	"os"
	"testing"

	"github.com/amidgo/bootcontainers"
	"github.com/rs/zerolog"
)

const contactPointEnvName = "CONTAINERS_CASSANDRA_CONTACT_POINT"

var externalReusable = NewReusable(ExternalContainer(nil))

func ExternalReusable() *Reusable {
	return externalReusable
}

func UseExternalForTestingConfig(
	t *testing.T,
	cfg *ExternalContainerConfig,
	scripts ...Script,
) Container {
	containers.SkipDisabled(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cnt, term, err := UseExternalConfig(ctx, cfg, scripts...)
	t.Cleanup(term)

	if err != nil {
		t.Fatal(err)

		return nil
	}

	return cnt
}

func UseExternalForTesting(t *testing.T, scripts ...Script) Container {
	return UseExternalForTestingConfig(t, nil, scripts...)
}

func UseExternalConfig(
	ctx context.Context,
	cfg *ExternalContainerConfig,
	scripts ...Script,
) (cnt Container, term func(), err error) {
	cnt, err = ExternalContainer(cfg)(ctx, containers.ExecutionContextLocal)
	if err != nil {
		return nil, func() {}, err
	}

	term, err = Init(ctx, cnt, zerolog.Nop(), scripts...)

	return cnt, term, err
}

func UseExternal(ctx context.Context, scripts ...Script) (cnt Container, term func(), err error) {
	return UseExternalConfig(ctx, nil, scripts...)
}

type ExternalContainerConfig struct {
	// ContactPoint is host[:port], defaults to CONTAINERS_CASSANDRA_CONTACT_POINT.
	ContactPoint string
	Session      SessionConfig
}

func externalContainerContactPoint(cfg *ExternalContainerConfig) string {
	if cfg != nil && cfg.ContactPoint != "" {
		return cfg.ContactPoint
	}

	return os.Getenv(contactPointEnvName)
}

func externalContainerSession(cfg *ExternalContainerConfig) SessionConfig {
	if cfg != nil {
		return cfg.Session
	}

	return SessionConfig{}
}

// ExternalContainer addresses an already running server. The execution context is ignored
// since nothing is provisioned, and Terminate leaves the server running.
func ExternalContainer(cfg *ExternalContainerConfig) CreateContainerFunc {
	return func(context.Context, containers.ExecutionContext) (Container, error) {
		address := externalContainerContactPoint(cfg)
		if address == "" {
			return nil, containers.NewResourceNotFoundError(
				"contact point is empty and environment variable "+contactPointEnvName+" is empty",
				nil,
			)
		}

		contactPoint, err := ParseContactPoint(address)
		if err != nil {
			return nil, containers.NewResourceNotFoundError("external cassandra", err)
		}

		return externalContainer{
			contactPoint: contactPoint,
			session:      externalContainerSession(cfg),
		}, nil
	}
}

type externalContainer struct {
	contactPoint ContactPoint
	session      SessionConfig
}

func (e externalContainer) ContactPoint(context.Context) (ContactPoint, error) {
	return e.contactPoint, nil
}

func (e externalContainer) Connect(ctx context.Context) (Session, error) {
	return Connect(ctx, e.contactPoint, e.session)
}

func (externalContainer) Env() map[string]string {
	return map[string]string{}
}

func (externalContainer) Terminate(context.Context) error {
	return nil
}
