package uf2

import (
	"errors"
	"fmt"
	"math/bits"
)

// Error kinds. All of them are terminal for the operation that returns them.
var (
	// ErrTruncated indicates a block that is not exactly BlockSize bytes,
	// or a stream that ends in the middle of a block
	ErrTruncated = errors.New("uf2: truncated block")

	// ErrBadMagic indicates a mismatched start or end magic number
	ErrBadMagic = errors.New("uf2: bad magic")

	// ErrPayloadOverflow indicates a declared payload size above DataSize
	ErrPayloadOverflow = errors.New("uf2: payload size exceeds data region")

	// ErrEmptyImage indicates an image with no blocks
	ErrEmptyImage = errors.New("uf2: empty image")

	// ErrAddressWrap indicates an address computation past the 32-bit space
	ErrAddressWrap = errors.New("uf2: address wraps 32-bit space")

	// ErrPayloadTooLarge indicates a caller tried to encode more than DataSize bytes
	ErrPayloadTooLarge = errors.New("uf2: payload too large")
)

// MagicError describes which magic field failed validation.
type MagicError struct {
	// Field is one of "magic0", "magic1" or "magic_end"
	Field string

	// Got is the value found on the wire
	Got uint32

	// Want is the expected constant
	Want uint32
}

func (e *MagicError) Error() string {
	return fmt.Sprintf("uf2: bad magic: %s is 0x%08X, expected 0x%08X", e.Field, e.Got, e.Want)
}

// Is makes MagicError match ErrBadMagic.
func (e *MagicError) Is(target error) bool {
	return target == ErrBadMagic
}

// BlockError attaches the stream position of a failing block.
type BlockError struct {
	// Index is the 0-based position of the block in the stream
	Index int

	// Err is the underlying decode error
	Err error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("block %d: %v", e.Index, e.Err)
}

func (e *BlockError) Unwrap() error {
	return e.Err
}

// IsDecodeError returns true if err is one of the block decode errors.
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrTruncated) ||
		errors.Is(err, ErrBadMagic) ||
		errors.Is(err, ErrPayloadOverflow)
}

// AddAddr returns a+n, or ErrAddressWrap if the sum does not fit in 32 bits.
func AddAddr(a, n uint32) (uint32, error) {
	sum, carry := bits.Add32(a, n, 0)
	if carry != 0 {
		return 0, fmt.Errorf("0x%08X + 0x%X: %w", a, n, ErrAddressWrap)
	}
	return sum, nil
}
