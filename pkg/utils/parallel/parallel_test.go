package parallel_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/naba-lab/parcellate/pkg/utils/parallel"
)

func TestRun_AllSucceed(t *testing.T) {
	var count int64

	err := parallel.Run(context.Background(),
		func(ctx context.Context) error { atomic.AddInt64(&count, 1); return nil },
		func(ctx context.Context) error { atomic.AddInt64(&count, 1); return nil },
		func(ctx context.Context) error { atomic.AddInt64(&count, 1); return nil },
	)

	gt.NoError(t, err)
	gt.Equal(t, atomic.LoadInt64(&count), int64(3))
}

func TestRun_NoTasks(t *testing.T) {
	gt.NoError(t, parallel.Run(context.Background()))
}

func TestRun_CollectsErrors(t *testing.T) {
	errA := errors.New("task A failed")
	errB := errors.New("task B failed")
	var ran int64

	err := parallel.Run(context.Background(),
		func(ctx context.Context) error { return errA },
		func(ctx context.Context) error { atomic.AddInt64(&ran, 1); return nil },
		func(ctx context.Context) error { return errB },
	)

	gt.Error(t, err)
	gt.True(t, errors.Is(err, errA))
	gt.True(t, errors.Is(err, errB))
	// Other tasks still run when one fails.
	gt.Equal(t, atomic.LoadInt64(&ran), int64(1))
}

func TestRun_RecoversPanic(t *testing.T) {
	err := parallel.Run(context.Background(),
		func(ctx context.Context) error { panic("boom") },
		func(ctx context.Context) error { return nil },
	)

	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("panic in parallel task")
}
