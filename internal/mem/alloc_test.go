package mem

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocAligned(t *testing.T) {
	for _, size := range []int{1, 7, 64, 100, 4096} {
		b := AllocAligned(size)
		require.Len(t, b, size)

		addr := uintptr(unsafe.Pointer(&b[0]))
		assert.Zero(t, addr&(Alignment-1), "size %d not aligned", size)
	}

	assert.Nil(t, AllocAligned(0))
}

func TestAllocAlignedUint64(t *testing.T) {
	s := AllocAlignedUint64(128)
	require.Len(t, s, 128)

	addr := uintptr(unsafe.Pointer(&s[0]))
	assert.Zero(t, addr&(Alignment-1))

	// Slots are usable as atomics and independent.
	s[0].Store(0xAA)
	s[127].Store(0xBB)
	assert.Equal(t, uint64(0xAA), s[0].Load())
	assert.Equal(t, uint64(0xBB), s[127].Load())
	assert.Zero(t, s[1].Load())

	assert.Nil(t, AllocAlignedUint64(0))
}
