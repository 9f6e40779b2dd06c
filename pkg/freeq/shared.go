package freeq

import (
	"sync"
	"unsafe"

	"github.com/huynhanx03/go-freeq/pkg/freeq/tuning"
)

// sharedQueue serializes every operation behind one mutex. The unit of
// locking is the queue instance; no cross-queue locking exists.
type sharedQueue struct {
	mu sync.Mutex
	core
}

func (q *sharedQueue) Flavor() Flavor { return FlavorShared }

func (q *sharedQueue) Push(ptr unsafe.Pointer, free FreeFunc, size uintptr) {
	q.mu.Lock()
	q.core.push(ptr, free, size)
	q.mu.Unlock()
}

func (q *sharedQueue) SetCountMax(n int) error {
	q.mu.Lock()
	q.core.setCountMax(n)
	q.mu.Unlock()
	return nil
}

func (q *sharedQueue) CountMax() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.core.countMax
}

func (q *sharedQueue) SetMemMax(n int64) error {
	q.mu.Lock()
	q.core.setMemMax(n)
	q.mu.Unlock()
	return nil
}

func (q *sharedQueue) MemMax() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.core.memMax
}

func (q *sharedQueue) Clear() {
	q.mu.Lock()
	q.core.clear(tuning.Load())
	q.mu.Unlock()
}

func (q *sharedQueue) Reduce(n int) {
	q.mu.Lock()
	q.core.reduce(n, tuning.Load())
	q.mu.Unlock()
}

func (q *sharedQueue) Pending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.core.count > 0
}

func (q *sharedQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.core.count
}

func (q *sharedQueue) MemUsed() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.core.mem
}

func (q *sharedQueue) Close() {
	q.mu.Lock()
	q.core.clear(tuning.Load())
	q.mu.Unlock()
}
