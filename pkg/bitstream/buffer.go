package bitstream

// bitBuffer is byte-backed storage addressed in bits. Bits past the bit
// length in the last byte are always zero.
type bitBuffer struct {
	data []byte
	bits int
}

func newBitBuffer(capacity int) *bitBuffer {
	return &bitBuffer{data: make([]byte, 0, capacity)}
}

// wrapBitBuffer views p without copying. The result is only read from.
func wrapBitBuffer(p []byte) *bitBuffer {
	return &bitBuffer{data: p, bits: len(p) * 8}
}

func (b *bitBuffer) Len() int {
	return b.bits
}

// appendBits appends the n low-order bits of v, most significant first.
func (b *bitBuffer) appendBits(v uint64, n int) {
	for n > 0 {
		used := b.bits & 7
		if used == 0 {
			b.data = append(b.data, 0)
		}
		free := 8 - used
		take := min(free, n)
		chunk := (v >> uint(n-take)) & (1<<uint(take) - 1)
		b.data[len(b.data)-1] |= byte(chunk << uint(free-take))
		n -= take
		b.bits += take
	}
}

func (b *bitBuffer) appendBytes(p []byte) {
	if b.bits&7 == 0 {
		b.data = append(b.data, p...)
		b.bits += len(p) * 8
		return
	}
	for _, c := range p {
		b.appendBits(uint64(c), 8)
	}
}

// padToByte extends the bit length to the end of the current byte.
func (b *bitBuffer) padToByte() int {
	pad := (8 - b.bits&7) & 7
	b.bits += pad
	return pad
}

// bitsAt returns n bits (n <= 64) starting at bit offset off. The caller
// checks bounds.
func (b *bitBuffer) bitsAt(off, n int) uint64 {
	var v uint64
	for n > 0 {
		cur := b.data[off>>3]
		avail := 8 - off&7
		take := min(avail, n)
		chunk := (uint64(cur) >> uint(avail-take)) & (1<<uint(take) - 1)
		v = v<<uint(take) | chunk
		off += take
		n -= take
	}
	return v
}

// copyAt fills dst with len(dst) bytes starting at bit offset off. The
// caller checks bounds.
func (b *bitBuffer) copyAt(off int, dst []byte) {
	if off&7 == 0 {
		copy(dst, b.data[off>>3:])
		return
	}
	for i := range dst {
		dst[i] = byte(b.bitsAt(off+8*i, 8))
	}
}
