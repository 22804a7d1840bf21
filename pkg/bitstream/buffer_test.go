package bitstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitBufferAppendIsMSBFirst(t *testing.T) {
	b := newBitBuffer(0)
	b.appendBits(1, 1)
	b.appendBits(0, 1)
	b.appendBits(0x3, 2)
	assert.Equal(t, 4, b.Len())
	assert.Equal(t, []byte{0xB0}, b.data)

	b.appendBits(0xABC, 12)
	assert.Equal(t, 16, b.Len())
	assert.Equal(t, []byte{0xBA, 0xBC}, b.data)
}

func TestBitBufferAppendMasksHighBits(t *testing.T) {
	b := newBitBuffer(0)
	b.appendBits(0xFF, 5)
	assert.Equal(t, []byte{0xF8}, b.data)
	assert.Equal(t, 5, b.Len())
}

func TestBitBufferBitsAtAcrossBytes(t *testing.T) {
	b := wrapBitBuffer([]byte{0x8F, 0x55})
	assert.Equal(t, uint64(0x8), b.bitsAt(0, 4))
	assert.Equal(t, uint64(0x7), b.bitsAt(4, 3))
	assert.Equal(t, uint64(0x5), b.bitsAt(7, 3))
	assert.Equal(t, uint64(0x15), b.bitsAt(10, 6))
	assert.Equal(t, uint64(0x8F55), b.bitsAt(0, 16))
}

func TestBitBufferSixtyFourBits(t *testing.T) {
	b := newBitBuffer(0)
	b.appendBits(1, 3)
	b.appendBits(0xDEADBEEFCAFEF00D, 64)
	require.Equal(t, 67, b.Len())
	assert.Equal(t, uint64(0xDEADBEEFCAFEF00D), b.bitsAt(3, 64))
}

func TestBitBufferUnalignedBytes(t *testing.T) {
	b := newBitBuffer(0)
	b.appendBits(0, 3)
	b.appendBytes([]byte{0xFF, 0x01})
	require.Equal(t, 19, b.Len())

	out := make([]byte, 2)
	b.copyAt(3, out)
	assert.Equal(t, []byte{0xFF, 0x01}, out)
}

func TestBitBufferPadToByte(t *testing.T) {
	b := newBitBuffer(0)
	b.appendBits(1, 3)
	assert.Equal(t, 5, b.padToByte())
	assert.Equal(t, 8, b.Len())
	assert.Equal(t, 0, b.padToByte())
	assert.Equal(t, 8, b.Len())
}
