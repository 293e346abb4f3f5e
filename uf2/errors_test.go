package uf2

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestMagicError(t *testing.T) {
	err := &MagicError{
		Field: "magic1",
		Got:   0x12345678,
		Want:  MagicStart1,
	}

	errMsg := err.Error()

	if !strings.Contains(errMsg, "magic1") {
		t.Errorf("error message should contain field name, got: %s", errMsg)
	}

	if !strings.Contains(errMsg, "0x12345678") {
		t.Errorf("error message should contain found value, got: %s", errMsg)
	}

	if !strings.Contains(errMsg, "0x9E5D5157") {
		t.Errorf("error message should contain expected value, got: %s", errMsg)
	}

	if !errors.Is(err, ErrBadMagic) {
		t.Errorf("MagicError should match ErrBadMagic")
	}
}

func TestBlockError(t *testing.T) {
	err := &BlockError{Index: 3, Err: ErrPayloadOverflow}

	if !strings.Contains(err.Error(), "block 3") {
		t.Errorf("error message should contain block index, got: %s", err.Error())
	}

	if !errors.Is(err, ErrPayloadOverflow) {
		t.Errorf("BlockError should unwrap to ErrPayloadOverflow")
	}
}

func TestIsDecodeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"truncated", ErrTruncated, true},
		{"wrapped bad magic", fmt.Errorf("reading: %w", &MagicError{Field: "magic0"}), true},
		{"payload overflow in block", &BlockError{Index: 1, Err: ErrPayloadOverflow}, true},
		{"empty image", ErrEmptyImage, false},
		{"address wrap", ErrAddressWrap, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDecodeError(tt.err); got != tt.want {
				t.Errorf("IsDecodeError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestAddAddr(t *testing.T) {
	if got, err := AddAddr(0x26000, 0x100); err != nil || got != 0x26100 {
		t.Errorf("AddAddr(0x26000, 0x100) = 0x%X, %v", got, err)
	}

	if _, err := AddAddr(0xFFFFFFFF, 1); !errors.Is(err, ErrAddressWrap) {
		t.Errorf("AddAddr(0xFFFFFFFF, 1) error = %v, want ErrAddressWrap", err)
	}
}
