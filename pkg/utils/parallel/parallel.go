// Package parallel runs independent tasks concurrently with panic
// recovery, used for fanning out the per-hemisphere measurement
// exports.
package parallel

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Run executes all tasks concurrently and waits for every task to
// finish. Panics are recovered, logged and reported as errors. The
// returned error joins all task failures.
func Run(ctx context.Context, tasks ...func(ctx context.Context) error) error {
	errs := make([]error, len(tasks))
	var wg sync.WaitGroup

	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task func(ctx context.Context) error) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					stack := debug.Stack()
					ctxlog.From(ctx).Error("panic in parallel task",
						"recover", r,
						"stack", string(stack))
					errs[i] = goerr.New("panic in parallel task", goerr.V("recover", r))
				}
			}()
			errs[i] = task(ctx)
		}(i, task)
	}

	wg.Wait()
	return errors.Join(errs...)
}
