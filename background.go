package dune

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Background schedules a fire-and-forget task. The request/response
// cycle does not wait for it; the process-wide lifecycle does, so
// Shutdown can drain in-flight work. A panicking task is logged and
// never reaches the request that scheduled it.
func (a *API) Background(task func()) {
	a.background.Add(1)
	go func() {
		defer a.background.Done()
		defer func() {
			if p := recover(); p != nil {
				a.log.Error("background task failed", zap.Error(fmt.Errorf("panic: %v", p)))
			}
		}()
		task()
	}()
}

// Shutdown waits for outstanding background tasks to drain, or for ctx
// to expire.
func (a *API) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.background.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
