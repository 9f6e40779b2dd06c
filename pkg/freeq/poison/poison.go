// Package poison stamps debug byte patterns into memory blocks so that
// "queued but still resident" and "about to be physically released" memory
// can be told apart in a debugger or a test.
package poison

import "unsafe"

// Default patterns. Pending marks a block that has been handed to a free
// queue but not yet released; Freed marks a block immediately before its
// release capability runs.
const (
	DefaultPending byte = 0x55
	DefaultFreed   byte = 0x77
)

// Fill overwrites every byte of the block with pattern. size must be the
// exact declared size of the block; nothing is written for a nil pointer or
// a zero size.
func Fill(ptr unsafe.Pointer, size uintptr, pattern byte) {
	if ptr == nil || size == 0 {
		return
	}
	b := unsafe.Slice((*byte)(ptr), size)
	for i := range b {
		b[i] = pattern
	}
}

// Verify reports whether every byte of the block equals pattern. A zero-size
// block verifies trivially.
func Verify(ptr unsafe.Pointer, size uintptr, pattern byte) bool {
	if ptr == nil || size == 0 {
		return true
	}
	b := unsafe.Slice((*byte)(ptr), size)
	for _, v := range b {
		if v != pattern {
			return false
		}
	}
	return true
}
