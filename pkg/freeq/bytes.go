package freeq

import (
	"unsafe"

	"github.com/huynhanx03/go-freeq/pkg/pool/byteslice"
)

// PushBytes queues b for deferred return to the byteslice pool. The caller
// must not touch b afterwards. An empty slice is a no-op.
func PushBytes(q Queue, b []byte) {
	if len(b) == 0 {
		return
	}
	q.Push(unsafe.Pointer(&b[0]), func(unsafe.Pointer) {
		byteslice.Put(b)
	}, uintptr(len(b)))
}
