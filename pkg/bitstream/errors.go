package bitstream

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrEndOfData also matches io.ErrUnexpectedEOF.
	ErrEndOfData          = fmt.Errorf("bitstream: end of data: %w", io.ErrUnexpectedEOF)
	ErrAccessViolation    = errors.New("bitstream: access violation")
	ErrFieldTooSmall      = errors.New("bitstream: field too small")
	ErrMissingTerminator  = errors.New("bitstream: missing terminator")
	ErrInvalidWidth       = errors.New("bitstream: invalid width")
	ErrOffsetRange        = errors.New("bitstream: offset out of range")
	ErrLimitExceeded      = errors.New("bitstream: limit exceeded")
	ErrUnknownKind        = errors.New("bitstream: unknown field kind")
	ErrEmbeddedTerminator = errors.New("bitstream: text contains terminator character")
)

func endOfData(op string, want, have int) error {
	return fmt.Errorf("%w: %s needs %d bits, %d remain", ErrEndOfData, op, want, have)
}
