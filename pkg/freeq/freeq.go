// Package freeq defers the physical release of memory blocks that have
// already been logically invalidated. Blocks are queued together with a
// release capability and drained in batches, with ceilings bounding how much
// freed-but-unreleased memory and how many items may accumulate.
package freeq

import (
	"sync/atomic"
	"unsafe"

	"github.com/huynhanx03/go-freeq/pkg/freeq/poison"
	"github.com/huynhanx03/go-freeq/pkg/freeq/tuning"
)

// Flavor selects the concurrency contract of a queue.
type Flavor int

const (
	// FlavorShared queues are safe for concurrent use from multiple
	// goroutines. Release capabilities pushed to them must be too, since
	// eviction runs on whichever goroutine's push triggered it.
	FlavorShared Flavor = iota

	// FlavorEphemeral queues belong to a single goroutine for their entire
	// life and are expected to be fully drained by a cooperative loop at a
	// fixed point in every iteration. Handing the queue to another
	// goroutine is a usage violation, not a supported race.
	FlavorEphemeral
)

// Unbounded is the ceiling sentinel for "no limit".
const Unbounded = -1

// Queue is a deferred free queue. Once a block is pushed, it is exclusively
// owned by the queue until its release capability runs; the caller must
// never dereference it again.
type Queue interface {
	// Flavor returns the queue's concurrency contract.
	Flavor() Flavor

	// Push queues ptr for release. A nil ptr is a no-op. A nil free
	// capability means the default deallocation routine. size 0 marks the
	// block opaque: untracked by the memory ceiling and never poisoned.
	Push(ptr unsafe.Pointer, free FreeFunc, size uintptr)

	// SetCountMax bounds the number of pending items; negative means
	// unbounded. Lowering the ceiling evicts immediately. Calling this
	// permanently disables bypass for the queue.
	SetCountMax(n int) error
	CountMax() int

	// SetMemMax bounds the sum of tracked sizes, in bytes; negative means
	// unbounded. Same eviction and bypass effects as SetCountMax.
	SetMemMax(n int64) error
	MemMax() int64

	// Clear releases every pending item in FIFO order, ignoring ceilings.
	Clear()

	// Reduce releases at most n oldest pending items in FIFO order.
	Reduce(n int)

	// Pending reports whether any items are queued.
	Pending() bool

	// Len returns the number of pending items.
	Len() int

	// MemUsed returns the sum of tracked sizes of pending items, in bytes.
	MemUsed() int64

	// Close drains every pending item and releases the queue's storage.
	// The queue must not be used afterwards.
	Close()
}

var (
	_ Queue = (*sharedQueue)(nil)
	_ Queue = (*ephemeralQueue)(nil)
)

// New creates an empty queue of the given flavor. Shared-flavor queues start
// with the tuning defaults as ceilings (applied without disabling bypass);
// ephemeral queues start unbounded and never bypass, since their items must
// stay resident until the owning loop's drain point.
func New(flavor Flavor) Queue {
	if flavor == FlavorEphemeral {
		return &ephemeralQueue{core: core{
			countMax: Unbounded,
			memMax:   Unbounded,
			noBypass: true,
		}}
	}
	cfg := tuning.Load()
	return &sharedQueue{core: core{
		countMax: ceilingOrUnbounded(cfg.TotalMax),
		memMax:   cfg.MemMaxBytes(),
	}}
}

func ceilingOrUnbounded(n int) int {
	if n < 0 {
		return Unbounded
	}
	return n
}

// core is the unsynchronized queue engine shared by both flavors: the FIFO
// item list, the counters, the ceilings, and the enforcement loop.
type core struct {
	head, tail *item
	count      int
	mem        int64
	countMax   int
	memMax     int64
	noBypass   bool
}

func (c *core) push(ptr unsafe.Pointer, free FreeFunc, size uintptr) {
	if ptr == nil {
		return
	}
	if free == nil {
		free = loadDefaultFree()
	}

	cfg := tuning.Load()
	if !c.noBypass && cfg.Bypass {
		// Bypass: the block never becomes a pending item.
		poisonFreed(ptr, size, cfg)
		free(ptr)
		return
	}

	if size > 0 && uint64(size) < cfg.FillMax {
		poison.Fill(ptr, size, cfg.Fill)
	}

	it := newItem(ptr, free, size)
	if c.tail == nil {
		c.head = it
	} else {
		c.tail.next = it
	}
	c.tail = it
	c.count++
	c.mem += int64(size)

	c.enforce(cfg)
}

// enforce evicts from the head until both ceilings hold again. It runs
// synchronously on the calling goroutine; a single push can release several
// items if a ceiling was lowered since the last check.
func (c *core) enforce(cfg *tuning.Config) {
	for (c.countMax >= 0 && c.count > c.countMax) ||
		(c.memMax >= 0 && c.mem > c.memMax) {
		if !c.popRelease(cfg) {
			return
		}
	}
}

// popRelease evicts the oldest pending item: stamp the pre-release pattern,
// invoke the release capability, fix the counters. Reports false when the
// queue is empty.
func (c *core) popRelease(cfg *tuning.Config) bool {
	it := c.head
	if it == nil {
		return false
	}
	c.head = it.next
	if c.head == nil {
		c.tail = nil
	}
	c.count--
	c.mem -= int64(it.size)

	poisonFreed(it.ptr, it.size, cfg)
	it.release()
	return true
}

func (c *core) clear(cfg *tuning.Config) {
	for c.popRelease(cfg) {
	}
}

func (c *core) reduce(n int, cfg *tuning.Config) {
	for ; n > 0; n-- {
		if !c.popRelease(cfg) {
			return
		}
	}
}

func (c *core) setCountMax(n int) {
	c.countMax = ceilingOrUnbounded(n)
	c.noBypass = true
	c.enforce(tuning.Load())
}

func (c *core) setMemMax(n int64) {
	if n < 0 {
		n = Unbounded
	}
	c.memMax = n
	c.noBypass = true
	c.enforce(tuning.Load())
}

func poisonFreed(ptr unsafe.Pointer, size uintptr, cfg *tuning.Config) {
	if size > 0 && uint64(size) < cfg.FillMax {
		poison.Fill(ptr, size, cfg.FillFreed)
	}
}

// defaultFree is the deallocation routine used when Push receives no release
// capability. The initial routine simply drops the queue's reference so that
// Go-managed memory becomes collectable; callers queueing foreign memory
// should install their own.
var defaultFree atomic.Value // FreeFunc

func init() {
	defaultFree.Store(FreeFunc(func(unsafe.Pointer) {}))
}

// SetDefaultFree installs the deallocation routine used when Push is given a
// nil release capability. Passing nil restores the initial routine. The
// routine must be safe to call from any goroutine.
func SetDefaultFree(fn FreeFunc) {
	if fn == nil {
		fn = func(unsafe.Pointer) {}
	}
	defaultFree.Store(fn)
}

func loadDefaultFree() FreeFunc {
	return defaultFree.Load().(FreeFunc)
}
