package cassandracontainer

import (
	"context"
	"fmt"
	"testing"

	"github.com/amidgo/bootcontainers"
)

func ReuseForTesting(
	t *testing.T,
	reusable *Reusable,
	scripts ...Script,
) Container {
	containers.SkipDisabled(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cnt, term, err := Reuse(ctx, reusable, scripts...)
	t.Cleanup(term)

	if err != nil {
		t.Fatal(err)

		return nil
	}

	return cnt
}

// Reuse enters the shared container and applies scripts to it.
// term releases the container for other users, it does not terminate it.
func Reuse(
	ctx context.Context,
	reusable *Reusable,
	scripts ...Script,
) (cnt Container, term func(), err error) {
	return reusable.run(ctx, scripts...)
}

// Reusable shares one cassandra container between tests, scripts are applied on every Reuse.
type Reusable struct {
	shared *containers.Reusable[Container]
}

func NewReusable(ccf CreateContainerFunc, opts ...containers.ReuseOption) *Reusable {
	return &Reusable{
		shared: containers.NewReusable(containers.ProvisionFunc[Container](ccf), opts...),
	}
}

func (r *Reusable) Terminate(ctx context.Context) error {
	return r.shared.Terminate(ctx)
}

func (r *Reusable) run(ctx context.Context, scripts ...Script) (cnt Container, term func(), err error) {
	cnt, err = r.shared.Enter(ctx)
	if err != nil {
		return nil, func() {}, err
	}

	term = r.shared.Exit

	for _, script := range scripts {
		err = Initialize(ctx, cnt, script)
		if err != nil {
			return cnt, term, fmt.Errorf("reuse container, %w", err)
		}
	}

	return cnt, term, nil
}
