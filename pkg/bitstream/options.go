package bitstream

import "github.com/rs/zerolog"

// Limits bounds allocations a Reader makes on behalf of untrusted input.
// A zero field is unbounded.
type Limits struct {
	MaxAllocatedLength int
	MaxPrefixedLength  int
}

func DefaultLimits() Limits {
	return Limits{
		MaxAllocatedLength: 64 * 1024,
		MaxPrefixedLength:  1024 * 1024,
	}
}

type options struct {
	logger   zerolog.Logger
	limits   Limits
	capacity int
}

// Option configures a Writer, Reader or Stream.
type Option func(*options)

// WithLogger routes codec diagnostics to l. The default logger discards.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithLimits replaces DefaultLimits for readers.
func WithLimits(l Limits) Option {
	return func(o *options) {
		o.limits = l
	}
}

// WithCapacity preallocates n bytes for writers.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger:   zerolog.Nop(),
		limits:   DefaultLimits(),
		capacity: 64,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
