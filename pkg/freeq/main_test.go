package freeq

import (
	"sync/atomic"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestMain_SameInstance(t *testing.T) {
	resetTuning(t)
	t.Cleanup(Shutdown)

	q := Main()
	require.NotNil(t, q)
	assert.Equal(t, FlavorShared, q.Flavor())
	assert.Same(t, q, Main())
}

func TestMain_ConcurrentFirstUse(t *testing.T) {
	resetTuning(t)
	Shutdown() // start from a cold state
	t.Cleanup(Shutdown)

	queues := make([]Queue, 16)
	var g errgroup.Group
	for i := range queues {
		i := i
		g.Go(func() error {
			queues[i] = Main()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for _, q := range queues {
		assert.Same(t, queues[0], q)
	}
}

func TestShutdown_DrainsPending(t *testing.T) {
	resetTuning(t)
	Shutdown()

	rec := &recorder{}
	q := Main()
	for i := 0; i < 5; i++ {
		q.Push(block(8), rec.free, 8)
	}

	Shutdown()
	assert.Len(t, rec.released(), 5)

	// A fresh main queue comes back after teardown.
	fresh := Main()
	t.Cleanup(Shutdown)
	assert.NotSame(t, q, fresh)
	assert.False(t, fresh.Pending())
}

func TestShutdown_ColdIsHarmless(t *testing.T) {
	Shutdown()
	Shutdown()
}

func TestShared_ConcurrentPush(t *testing.T) {
	resetTuning(t)

	const (
		workers = 8
		pushes  = 200
	)

	q := New(FlavorShared)
	require.NoError(t, q.SetCountMax(16))

	// Eviction runs on whichever goroutine's push triggered it, so the
	// capability must be safe to call from any of them.
	var released atomic.Int64
	free := func(unsafe.Pointer) { released.Add(1) }

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < pushes; i++ {
				q.Push(block(4), free, 4)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	q.Clear()

	assert.Equal(t, int64(workers*pushes), released.Load())
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, int64(0), q.MemUsed())
}
