package dune

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackground(t *testing.T) {
	t.Run("shutdown waits for tasks", func(t *testing.T) {
		api := New(Config{})

		var done atomic.Bool
		api.Background(func() {
			time.Sleep(10 * time.Millisecond)
			done.Store(true)
		})

		require.NoError(t, api.Shutdown(context.Background()))
		assert.True(t, done.Load())
	})

	t.Run("shutdown honours the deadline", func(t *testing.T) {
		api := New(Config{})

		release := make(chan struct{})
		api.Background(func() { <-release })

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, api.Shutdown(ctx), context.DeadlineExceeded)

		close(release)
	})

	t.Run("panicking task does not take the process down", func(t *testing.T) {
		api := New(Config{})
		api.Background(func() { panic("task blew up") })
		require.NoError(t, api.Shutdown(context.Background()))
	})
}
