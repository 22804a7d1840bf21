package bitstream

// Stream pairs a Writer and a Reader over one buffer, so anything written
// can be read back in order. The read side never passes the write side.
type Stream struct {
	*Writer
	*Reader
}

func NewStream(mode LockMode, opts ...Option) *Stream {
	o := buildOptions(opts)
	buf := newBitBuffer(o.capacity)
	return &Stream{
		Writer: newWriter(buf, o),
		Reader: newReader(buf, mode, o),
	}
}
