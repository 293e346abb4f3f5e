package converter

import (
	"fmt"
)

// WriteError indicates that writing a block to the output failed.
type WriteError struct {
	BlockNo int
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write block %d: %v", e.BlockNo, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// BlockMismatchError indicates that a decoded block does not carry the
// expected address or payload.
type BlockMismatchError struct {
	BlockNo      uint32
	ExpectedAddr uint32
	ActualAddr   uint32
}

func (e *BlockMismatchError) Error() string {
	return fmt.Sprintf("block %d mismatch: expected address 0x%08X, got 0x%08X",
		e.BlockNo, e.ExpectedAddr, e.ActualAddr)
}

// VerificationError indicates that the produced stream does not reproduce the input.
type VerificationError struct {
	Reason string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("uf2 verification failed: %s", e.Reason)
}
