package freeq

import (
	"sync"
	"unsafe"
)

// FreeFunc releases a block previously handed to a queue. It is invoked
// exactly once per item, must be fast and non-blocking, and must not
// re-enter the queue that invokes it. Capabilities given to a shared-flavor
// queue must be safe to call from any goroutine.
type FreeFunc func(ptr unsafe.Pointer)

// item is one pending release. Items form a singly linked FIFO list inside
// the queue core and are recycled through a pool.
type item struct {
	ptr  unsafe.Pointer
	free FreeFunc
	size uintptr
	next *item
}

var itemPool = sync.Pool{
	New: func() any { return new(item) },
}

func newItem(ptr unsafe.Pointer, free FreeFunc, size uintptr) *item {
	it := itemPool.Get().(*item)
	it.ptr = ptr
	it.free = free
	it.size = size
	it.next = nil
	return it
}

// release invokes the item's capability and recycles the record.
func (it *item) release() {
	it.free(it.ptr)
	it.ptr = nil
	it.free = nil
	it.size = 0
	it.next = nil
	itemPool.Put(it)
}
