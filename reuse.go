package containers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

type reuseCommand uint8

const (
	reuseCommandEnter reuseCommand = iota
	reuseCommandExit
)

type reuseContainerRequest struct {
	reuseCmd reuseCommand
	ctx      context.Context
	respCh   chan reuseContainerResponse
}

type reuseContainerResponse struct {
	cnt any
	err error
}

type CreateContainerFunc func(ctx context.Context) (any, error)

type DaemonOption func(*ReusableDaemon)

func WithDaemonLogger(logger zerolog.Logger) DaemonOption {
	return func(d *ReusableDaemon) {
		d.logger = logger
	}
}

// ReusableDaemon shares one container between concurrent users.
// The container is created on the first Enter and terminated waitDuration
// after the last Exit, unless someone enters again in between.
type ReusableDaemon struct {
	waitDuration time.Duration
	ccf          CreateContainerFunc
	logger       zerolog.Logger

	mainCtx context.Context
	reqCh   chan reuseContainerRequest
	done    chan struct{}

	// owned by the daemon goroutine
	cnt         any
	activeUsers int
}

func RunReusableDaemon(
	ctx context.Context,
	waitDuration time.Duration,
	ccf CreateContainerFunc,
	opts ...DaemonOption,
) *ReusableDaemon {
	daemon := &ReusableDaemon{
		waitDuration: waitDuration,
		ccf:          ccf,
		logger:       zerolog.Nop(),
		mainCtx:      ctx,
		reqCh:        make(chan reuseContainerRequest),
		done:         make(chan struct{}),
	}

	for _, op := range opts {
		op(daemon)
	}

	go daemon.run(ctx)

	return daemon
}

// Done is closed once the daemon stopped and terminated its container.
func (d *ReusableDaemon) Done() <-chan struct{} {
	return d.done
}

func (d *ReusableDaemon) Enter(ctx context.Context) (any, error) {
	req := reuseContainerRequest{
		reuseCmd: reuseCommandEnter,
		ctx:      ctx,
		respCh:   make(chan reuseContainerResponse, 1),
	}

	select {
	case <-d.mainCtx.Done():
		return nil, fmt.Errorf("root ctx is done, %w", context.Cause(d.mainCtx))
	case <-ctx.Done():
		return nil, fmt.Errorf("enter reusable daemon, %w", context.Cause(ctx))
	case d.reqCh <- req:
	}

	resp := <-req.respCh

	return resp.cnt, resp.err
}

func (d *ReusableDaemon) Exit() {
	req := reuseContainerRequest{
		reuseCmd: reuseCommandExit,
		ctx:      context.Background(),
		respCh:   make(chan reuseContainerResponse, 1),
	}

	select {
	case <-d.done:
	case d.reqCh <- req:
		<-req.respCh
	}
}

func (d *ReusableDaemon) run(ctx context.Context) {
	defer close(d.done)

	idle := time.NewTimer(d.waitDuration)
	idle.Stop()

	for {
		select {
		case <-ctx.Done():
			idle.Stop()
			d.clearContainer()

			return
		case <-idle.C:
			if d.activeUsers == 0 {
				d.clearContainer()
			}
		case req := <-d.reqCh:
			req.respCh <- d.handleReuseCommand(req.ctx, req.reuseCmd, idle)
		}
	}
}

func (d *ReusableDaemon) handleReuseCommand(ctx context.Context, reuseCmd reuseCommand, idle *time.Timer) reuseContainerResponse {
	switch reuseCmd {
	case reuseCommandEnter:
		idle.Stop()

		return d.enter(ctx)
	case reuseCommandExit:
		d.activeUsers--

		switch {
		case d.activeUsers < 0:
			panic("reuse container exit called twice, negative amount of active users")
		case d.activeUsers == 0:
			idle.Reset(d.waitDuration)
		}

		return reuseContainerResponse{}
	default:
		panic("invalid reuse command received: " + strconv.FormatUint(uint64(reuseCmd), 10))
	}
}

func (d *ReusableDaemon) enter(ctx context.Context) reuseContainerResponse {
	if d.cnt == nil {
		cnt, err := d.ccf(ctx)
		if err != nil {
			return reuseContainerResponse{err: fmt.Errorf("create new container, %w", err)}
		}

		d.cnt = cnt
	}

	d.activeUsers++

	return reuseContainerResponse{cnt: d.cnt}
}

func (d *ReusableDaemon) clearContainer() {
	if d.cnt == nil {
		return
	}

	type terminater interface {
		Terminate(ctx context.Context) error
	}

	trm, ok := d.cnt.(terminater)
	if ok {
		err := trm.Terminate(context.Background())
		if err != nil {
			d.logger.Warn().Err(err).Msg("failed terminate reusable container")
		}
	}

	d.cnt = nil
}
