package containers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const defaultReuseWaitDuration = time.Second

type reuseOptions struct {
	waitDuration time.Duration
	execCtx      ExecutionContext
	logger       zerolog.Logger
}

type ReuseOption func(*reuseOptions)

// WithWaitDuration sets how long the shared container outlives its last user.
func WithWaitDuration(waitDuration time.Duration) ReuseOption {
	return func(o *reuseOptions) {
		o.waitDuration = waitDuration
	}
}

func WithExecutionContext(execCtx ExecutionContext) ReuseOption {
	return func(o *reuseOptions) {
		o.execCtx = execCtx
	}
}

func WithLogger(logger zerolog.Logger) ReuseOption {
	return func(o *reuseOptions) {
		o.logger = logger
	}
}

// Reusable is a typed handle over a ReusableDaemon. The daemon starts on first use.
type Reusable[C any] struct {
	provision ProvisionFunc[C]
	opts      reuseOptions

	runDaemonOnce sync.Once
	daemon        *ReusableDaemon
	stopDaemon    context.CancelFunc
}

func NewReusable[C any](provision ProvisionFunc[C], opts ...ReuseOption) *Reusable[C] {
	reusable := &Reusable[C]{
		provision: provision,
		opts: reuseOptions{
			waitDuration: defaultReuseWaitDuration,
			execCtx:      ExecutionContextLocal,
			logger:       zerolog.Nop(),
		},
	}

	for _, op := range opts {
		op(&reusable.opts)
	}

	return reusable
}

// Enter returns the shared container, provisioning it when nobody holds it.
// Every successful Enter must be paired with Exit.
func (r *Reusable[C]) Enter(ctx context.Context) (cnt C, err error) {
	r.runDaemonOnce.Do(r.runDaemon)

	shared, err := r.daemon.Enter(ctx)
	if err != nil {
		return cnt, fmt.Errorf("enter to reuse container, %w", err)
	}

	cnt, ok := shared.(C)
	if !ok {
		r.daemon.Exit()

		return cnt, fmt.Errorf("enter to reuse container, unexpected container type %T", shared)
	}

	return cnt, nil
}

func (r *Reusable[C]) Exit() {
	r.runDaemonOnce.Do(r.runDaemon)

	r.daemon.Exit()
}

// Terminate stops the daemon and waits until the shared container is terminated.
func (r *Reusable[C]) Terminate(ctx context.Context) error {
	r.runDaemonOnce.Do(r.runDaemon)

	r.stopDaemon()

	select {
	case <-r.daemon.Done():
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

func (r *Reusable[C]) runDaemon() {
	ccf := func(ctx context.Context) (any, error) {
		return r.provision(ctx, r.opts.execCtx)
	}

	ctx, cancel := context.WithCancel(context.Background())

	r.daemon = RunReusableDaemon(ctx,
		r.opts.waitDuration,
		ccf,
		WithDaemonLogger(r.opts.logger),
	)
	r.stopDaemon = cancel
}
