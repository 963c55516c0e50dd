package mem

import (
	"sync/atomic"
	"unsafe"
)

// Alignment is the byte alignment used for slot arrays (one cache line).
const Alignment = 64

// AllocAligned allocates a byte slice of the given size with 64-byte alignment.
// The returned slice is guaranteed to start at a memory address divisible by 64.
//
// Note: This function allocates slightly more memory than requested to ensure
// alignment. The underlying array is kept alive by the returned slice.
func AllocAligned(size int) []byte {
	if size == 0 {
		return nil
	}

	totalSize := size + Alignment
	buf := make([]byte, totalSize)

	ptr := unsafe.Pointer(&buf[0]) //nolint:gosec // unsafe is required for memory alignment
	addr := uintptr(ptr)
	offset := (Alignment - (addr & (Alignment - 1))) & (Alignment - 1)

	return buf[offset : offset+uintptr(size)]
}

// AllocAlignedUint64 allocates an atomic.Uint64 slice of the given length with
// 64-byte alignment, for lock-free slot arrays.
func AllocAlignedUint64(n int) []atomic.Uint64 {
	if n == 0 {
		return nil
	}

	byteSlice := AllocAligned(n * 8)

	// Safe because AllocAligned guarantees 64-byte alignment, which exceeds
	// the 8-byte alignment atomic.Uint64 requires.
	ptr := unsafe.Pointer(&byteSlice[0])          //nolint:gosec // unsafe is required for memory alignment
	return unsafe.Slice((*atomic.Uint64)(ptr), n) //nolint:gosec // unsafe is required for memory alignment
}
