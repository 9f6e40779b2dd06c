// Package byteslice pools byte slices in power-of-two size buckets. It is
// the default release target for byte slices queued through a free queue.
package byteslice

import (
	"math/bits"
	"sync"
)

const (
	minBitSize = 6  // 64 bytes (CPU cache line)
	steps      = 20 // 64B to 32MB

	minSize = 1 << minBitSize
	maxSize = 1 << (minBitSize + steps - 1)
)

var buckets [steps]sync.Pool

// Get returns a slice of length size backed by a pooled array. Sizes above
// the largest bucket are allocated directly.
func Get(size int) []byte {
	if size <= 0 {
		return nil
	}
	idx := indexOf(size)
	if idx >= steps {
		return make([]byte, size)
	}
	if v := buckets[idx].Get(); v != nil {
		return v.([]byte)[:size]
	}
	return make([]byte, size, minSize<<idx)
}

// Put returns b's backing array to its bucket. Slices whose capacity is not
// a pooled bucket size are dropped for the GC to collect.
func Put(b []byte) {
	c := cap(b)
	if c < minSize || c > maxSize || c&(c-1) != 0 {
		return
	}
	buckets[indexOf(c)].Put(b[:c])
}

// indexOf maps size to the smallest bucket holding at least size bytes.
func indexOf(size int) int {
	idx := bits.Len(uint(size-1)) - minBitSize
	if idx < 0 {
		return 0
	}
	return idx
}
