package bitstream

import "fmt"

// LockMode decides whether a Reader exposes its cursor to callers.
type LockMode uint8

const (
	// Locked readers only move their cursor through read operations.
	Locked LockMode = iota
	// Unlocked readers also allow ReadOffset and SetReadOffset.
	Unlocked
)

func (m LockMode) String() string {
	switch m {
	case Locked:
		return "locked"
	case Unlocked:
		return "unlocked"
	default:
		return fmt.Sprintf("LockMode(%d)", uint8(m))
	}
}

func (m LockMode) guard(op string) error {
	if m != Unlocked {
		return fmt.Errorf("%w: %s on %s reader", ErrAccessViolation, op, m)
	}
	return nil
}

// cursor is a read position over a bitBuffer. It only moves through take,
// which fails without moving when too few bits remain.
type cursor struct {
	buf *bitBuffer
	off int
}

func (c *cursor) remaining() int {
	return c.buf.Len() - c.off
}

func (c *cursor) take(op string, n int) (int, error) {
	if rem := c.remaining(); n > rem {
		return 0, endOfData(op, n, rem)
	}
	start := c.off
	c.off += n
	return start, nil
}

// takeBytes is take for n whole bytes. The bounds check is done in bytes so
// a large n cannot overflow the bit count.
func (c *cursor) takeBytes(op string, n int) (int, error) {
	if rem := c.remaining(); n > rem/8 {
		return 0, fmt.Errorf("%w: %s needs %d bytes, %d bits remain", ErrEndOfData, op, n, rem)
	}
	return c.take(op, 8*n)
}

// alignment returns how many bits separate off from the next byte boundary.
func alignment(off int) int {
	return (8 - off&7) & 7
}
