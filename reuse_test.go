package containers_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amidgo/bootcontainers"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type countingTerminater struct {
	terminated atomic.Int64
}

func (c *countingTerminater) Terminate(context.Context) error {
	c.terminated.Add(1)

	return nil
}

func Test_ReusableDaemon_SharesContainer(t *testing.T) {
	t.Parallel()

	cnt := &countingTerminater{}
	created := atomic.Int64{}

	ccf := containers.CreateContainerFunc(func(context.Context) (any, error) {
		created.Add(1)

		return cnt, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	daemon := containers.RunReusableDaemon(ctx, time.Minute, ccf)

	errgr := errgroup.Group{}

	for range 10 {
		errgr.Go(func() error {
			actual, err := daemon.Enter(ctx)
			if err != nil {
				return err
			}

			defer daemon.Exit()

			if actual != cnt {
				return errors.New("enter returned a different container")
			}

			return nil
		})
	}

	err := errgr.Wait()
	if err != nil {
		t.Fatal(err)
	}

	if created.Load() != 1 {
		t.Fatalf("container created %d times, expected once", created.Load())
	}

	cancel()
	<-daemon.Done()

	if cnt.terminated.Load() != 1 {
		t.Fatalf("container terminated %d times, expected once", cnt.terminated.Load())
	}
}

func Test_ReusableDaemon_TerminatesAfterWait(t *testing.T) {
	t.Parallel()

	waitDuration := 50 * time.Millisecond

	first := &countingTerminater{}
	second := &countingTerminater{}
	created := atomic.Int64{}

	ccf := containers.CreateContainerFunc(func(context.Context) (any, error) {
		if created.Add(1) == 1 {
			return first, nil
		}

		return second, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	daemon := containers.RunReusableDaemon(ctx, waitDuration, ccf)

	cnt, err := daemon.Enter(ctx)
	if err != nil {
		t.Fatalf("enter to daemon, expected no error, actual %s", err)
	}

	if cnt != first {
		t.Fatalf("enter to daemon, expected first container, actual %+v", cnt)
	}

	daemon.Exit()

	<-time.After(waitDuration * 4)

	if first.terminated.Load() != 1 {
		t.Fatal("first container is not terminated after wait duration")
	}

	cnt, err = daemon.Enter(ctx)
	if err != nil {
		t.Fatalf("enter to daemon, expected no error, actual %s", err)
	}

	if cnt != second {
		t.Fatalf("enter to daemon, expected new container, actual %+v", cnt)
	}

	daemon.Exit()
}

func Test_ReusableDaemon_ReenterWithinWait(t *testing.T) {
	t.Parallel()

	cnt := &countingTerminater{}
	created := atomic.Int64{}

	ccf := containers.CreateContainerFunc(func(context.Context) (any, error) {
		created.Add(1)

		return cnt, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	daemon := containers.RunReusableDaemon(ctx, time.Minute, ccf)

	for range 3 {
		_, err := daemon.Enter(ctx)
		if err != nil {
			t.Fatalf("enter to daemon, expected no error, actual %s", err)
		}

		daemon.Exit()
	}

	if created.Load() != 1 {
		t.Fatalf("container created %d times, expected once", created.Load())
	}

	if cnt.terminated.Load() != 0 {
		t.Fatal("container terminated before wait duration elapsed")
	}
}

func Test_ReusableDaemon_CreateError(t *testing.T) {
	t.Parallel()

	errCreate := errors.New("docker is not running")

	ccf := containers.CreateContainerFunc(func(context.Context) (any, error) {
		return nil, errCreate
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	daemon := containers.RunReusableDaemon(ctx, time.Second, ccf)

	_, err := daemon.Enter(ctx)
	if !errors.Is(err, errCreate) {
		t.Fatalf("enter to daemon, expected %s, actual %v", errCreate, err)
	}
}

func Test_ReusableDaemon_StoppedDaemon(t *testing.T) {
	t.Parallel()

	ccf := containers.CreateContainerFunc(func(context.Context) (any, error) {
		return "container", nil
	})

	ctx, cancel := context.WithCancel(context.Background())

	daemon := containers.RunReusableDaemon(ctx, time.Second, ccf)

	cancel()
	<-daemon.Done()

	_, err := daemon.Enter(context.Background())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("enter to stopped daemon, expected context.Canceled, actual %v", err)
	}

	daemon.Exit()
}

type typedContainer struct {
	countingTerminater
	name string
}

func Test_Reusable_TypedEnterExit(t *testing.T) {
	t.Parallel()

	cnt := &typedContainer{name: "shared"}

	var (
		created  atomic.Int64
		execCtxs = make(chan containers.ExecutionContext, 1)
	)

	reusable := containers.NewReusable(
		containers.ProvisionFunc[*typedContainer](func(_ context.Context, execCtx containers.ExecutionContext) (*typedContainer, error) {
			created.Add(1)
			execCtxs <- execCtx

			return cnt, nil
		}),
		containers.WithWaitDuration(time.Hour),
		containers.WithExecutionContext(containers.ExecutionContextCI),
	)

	ctx := context.Background()

	first, err := reusable.Enter(ctx)
	require.NoError(t, err)

	second, err := reusable.Enter(ctx)
	require.NoError(t, err)

	require.Same(t, cnt, first)
	require.Same(t, cnt, second)
	require.Equal(t, int64(1), created.Load())
	require.Equal(t, containers.ExecutionContextCI, <-execCtxs)

	reusable.Exit()
	reusable.Exit()

	require.NoError(t, reusable.Terminate(ctx))
	require.Equal(t, int64(1), cnt.terminated.Load())
}

func Test_Reusable_ProvisionError(t *testing.T) {
	t.Parallel()

	errEngine := errors.New("docker daemon unavailable")

	reusable := containers.NewReusable(
		containers.ProvisionFunc[*typedContainer](func(context.Context, containers.ExecutionContext) (*typedContainer, error) {
			return nil, errEngine
		}),
	)

	_, err := reusable.Enter(context.Background())
	require.ErrorIs(t, err, errEngine)

	require.NoError(t, reusable.Terminate(context.Background()))
}
