package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool(t *testing.T) {
	t.Run("runs submitted work to completion", func(t *testing.T) {
		pool := NewWorkerPool(2)
		defer pool.Close()

		var ran atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := pool.Do(context.Background(), func() { ran.Add(1) })
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(10), ran.Load())
	})

	t.Run("Do returns after fn has finished", func(t *testing.T) {
		pool := NewWorkerPool(1)
		defer pool.Close()

		done := false
		require.NoError(t, pool.Do(context.Background(), func() { done = true }))
		assert.True(t, done)
	})

	t.Run("cancellation wins the race to submission", func(t *testing.T) {
		pool := NewWorkerPool(1)
		defer pool.Close()

		// Occupy the single worker so the next submission has to queue.
		started := make(chan struct{})
		block := make(chan struct{})
		go func() {
			_ = pool.Do(context.Background(), func() {
				close(started)
				<-block
			})
		}()
		<-started

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := pool.Do(ctx, func() { t.Error("must not run") })
		assert.ErrorIs(t, err, context.Canceled)
		close(block)
	})

	t.Run("non-positive size defaults to the CPU count", func(t *testing.T) {
		pool := NewWorkerPool(0)
		defer pool.Close()

		require.NoError(t, pool.Do(context.Background(), func() {}))
	})
}
