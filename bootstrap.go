package containers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
)

type Stage uint8

const (
	StageUnstarted Stage = iota
	StageStarted
	StageInitialized
	StageVerified
	StageSkippedInit
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageUnstarted:
		return "unstarted"
	case StageStarted:
		return "started"
	case StageInitialized:
		return "initialized"
	case StageVerified:
		return "verified"
	case StageSkippedInit:
		return "skipped_init"
	case StageFailed:
		return "failed"
	default:
		return "unknown(" + strconv.FormatUint(uint64(s), 10) + ")"
	}
}

func (s Stage) Terminal() bool {
	return s == StageVerified || s == StageSkippedInit || s == StageFailed
}

var ErrBootstrapUsed = errors.New("bootstrap already run, create a new one to provision again")

type ProvisionFunc[C any] func(ctx context.Context, execCtx ExecutionContext) (C, error)

type StepFunc[C any] func(ctx context.Context, cnt C) error

// Bootstrap provisions a container and, only when the debug profile is active,
// initializes and verifies it. A Bootstrap runs once.
type Bootstrap[C any] struct {
	Provision  ProvisionFunc[C]
	Initialize StepFunc[C]
	Verify     StepFunc[C]

	DebugProfile string
	Logger       zerolog.Logger

	stage Stage
}

func (b *Bootstrap[C]) Stage() Stage {
	return b.stage
}

// Run returns the provisioned container even when initialize or verify fail,
// so the caller can still terminate it.
func (b *Bootstrap[C]) Run(ctx context.Context, execCtx ExecutionContext, profiles Profiles) (cnt C, err error) {
	if b.stage != StageUnstarted {
		return cnt, ErrBootstrapUsed
	}

	defer func() {
		if err != nil {
			b.stage = StageFailed
		}

		b.Logger.Debug().Stringer("stage", b.stage).Msg("bootstrap finished")
	}()

	debug := profiles.Has(b.DebugProfile)

	b.Logger.Info().
		Stringer("execution_context", execCtx).
		Str("debug_profile", b.DebugProfile).
		Bool("debug", debug).
		Msg("bootstrap container")

	cnt, err = b.Provision(ctx, execCtx)
	if err != nil {
		return cnt, fmt.Errorf("provision, %w", err)
	}

	b.stage = StageStarted

	if !debug {
		b.stage = StageSkippedInit

		return cnt, nil
	}

	if b.Initialize != nil {
		err = b.Initialize(ctx, cnt)
		if err != nil {
			return cnt, fmt.Errorf("initialize, %w", err)
		}
	}

	b.stage = StageInitialized

	if b.Verify != nil {
		err = b.Verify(ctx, cnt)
		if err != nil {
			return cnt, fmt.Errorf("verify, %w", err)
		}
	}

	b.stage = StageVerified

	return cnt, nil
}
