package freeq

import (
	"unsafe"

	"github.com/huynhanx03/go-freeq/pkg/freeq/tuning"
)

// ephemeralQueue has no internal synchronization; the goroutine that created
// it must be the only one to ever touch it. It never bypasses and never
// enforces ceilings: its owner is expected to Clear it at a fixed point in
// every loop iteration. If the owner never reaches such a point, items
// accumulate without bound.
type ephemeralQueue struct {
	core
}

func (q *ephemeralQueue) Flavor() Flavor { return FlavorEphemeral }

func (q *ephemeralQueue) Push(ptr unsafe.Pointer, free FreeFunc, size uintptr) {
	q.core.push(ptr, free, size)
}

// SetCountMax rejects the call: ceilings are a shared-flavor concept, and an
// ephemeral queue's wholesale drain makes them meaningless.
func (q *ephemeralQueue) SetCountMax(int) error { return ErrEphemeralLimit }

func (q *ephemeralQueue) CountMax() int { return q.core.countMax }

// SetMemMax rejects the call; see SetCountMax.
func (q *ephemeralQueue) SetMemMax(int64) error { return ErrEphemeralLimit }

func (q *ephemeralQueue) MemMax() int64 { return q.core.memMax }

func (q *ephemeralQueue) Clear() { q.core.clear(tuning.Load()) }

func (q *ephemeralQueue) Reduce(n int) { q.core.reduce(n, tuning.Load()) }

func (q *ephemeralQueue) Pending() bool { return q.core.count > 0 }

func (q *ephemeralQueue) Len() int { return q.core.count }

func (q *ephemeralQueue) MemUsed() int64 { return q.core.mem }

func (q *ephemeralQueue) Close() { q.core.clear(tuning.Load()) }
