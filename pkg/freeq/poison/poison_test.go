package poison

import (
	"testing"
	"unsafe"
)

func TestFill(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		pattern byte
	}{
		{name: "pending_pattern", size: 16, pattern: DefaultPending},
		{name: "freed_pattern", size: 16, pattern: DefaultFreed},
		{name: "single_byte", size: 1, pattern: 0xAB},
		{name: "odd_size", size: 7, pattern: 0x01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := make([]byte, tt.size)
			Fill(unsafe.Pointer(&b[0]), uintptr(tt.size), tt.pattern)
			for i, v := range b {
				if v != tt.pattern {
					t.Fatalf("byte %d = %#x, want %#x", i, v, tt.pattern)
				}
			}
		})
	}
}

func TestFill_NilAndZero(t *testing.T) {
	// Must not touch anything.
	Fill(nil, 8, 0xFF)

	b := []byte{1, 2, 3}
	Fill(unsafe.Pointer(&b[0]), 0, 0xFF)
	if b[0] != 1 || b[1] != 2 || b[2] != 3 {
		t.Fatalf("zero-size fill modified memory: %v", b)
	}
}

func TestFill_PartialBlock(t *testing.T) {
	// Declared size smaller than the backing array: bytes past size stay intact.
	b := []byte{9, 9, 9, 9}
	Fill(unsafe.Pointer(&b[0]), 2, 0x55)
	if b[0] != 0x55 || b[1] != 0x55 {
		t.Fatalf("first two bytes not filled: %v", b)
	}
	if b[2] != 9 || b[3] != 9 {
		t.Fatalf("bytes past declared size modified: %v", b)
	}
}

func TestVerify(t *testing.T) {
	b := make([]byte, 8)
	p := unsafe.Pointer(&b[0])

	Fill(p, 8, DefaultPending)
	if !Verify(p, 8, DefaultPending) {
		t.Fatal("verify failed on freshly filled block")
	}
	if Verify(p, 8, DefaultFreed) {
		t.Fatal("verify matched the wrong pattern")
	}

	b[7] = 0
	if Verify(p, 8, DefaultPending) {
		t.Fatal("verify matched a corrupted block")
	}

	if !Verify(nil, 8, DefaultPending) || !Verify(p, 0, DefaultPending) {
		t.Fatal("nil pointer or zero size must verify trivially")
	}
}
