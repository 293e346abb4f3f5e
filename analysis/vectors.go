package analysis

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/elliotchance/orderedmap/v3"

	"github.com/moffa90/go-uf2/firmware"
	"github.com/moffa90/go-uf2/uf2"
)

// ErrOutsideImage is returned when an address is not covered by any record.
var ErrOutsideImage = errors.New("analysis: address outside image")

// DefaultEntryAddress is the application load address behind the Adafruit
// nRF52840 bootloader and SoftDevice.
const DefaultEntryAddress = 0x26000

// Vector table geometry.
const (
	// VectorTableSize is the number of bytes interpreted as vectors
	VectorTableSize = 64

	// VectorSize is the size of one vector entry
	VectorSize = 4

	// firstIRQ is the index of the first external interrupt vector
	firstIRQ = 16
)

// VectorNames maps vector table indices to names.
// It is read-only once built.
type VectorNames struct {
	m *orderedmap.OrderedMap[int, string]
}

// NewVectorNames builds a name table from names in index order.
func NewVectorNames(names ...string) *VectorNames {
	m := orderedmap.NewOrderedMap[int, string]()
	for i, name := range names {
		m.Set(i, name)
	}
	return &VectorNames{m: m}
}

// CortexM holds the ARMv7-M system exception names for indices 0-15.
var CortexM = NewVectorNames(
	"Stack Pointer",
	"Reset",
	"NMI",
	"HardFault",
	"MemManage",
	"BusFault",
	"UsageFault",
	"Reserved",
	"Reserved",
	"Reserved",
	"Reserved",
	"SVCall",
	"DebugMon",
	"Reserved",
	"PendSV",
	"SysTick",
)

// Name returns the name of vector i.
// Indices past the table are external interrupts named IRQn.
func (v *VectorNames) Name(i int) string {
	if name, ok := v.m.Get(i); ok {
		return name
	}
	if i >= firstIRQ {
		return fmt.Sprintf("IRQ%d", i-firstIRQ)
	}
	return "Reserved"
}

// Len returns the number of named entries.
func (v *VectorNames) Len() int {
	return v.m.Len()
}

// Vector is one decoded vector table entry.
type Vector struct {
	Index int
	Name  string
	Value uint32
}

// VectorTable is the interpreted start of an image.
type VectorTable struct {
	// Address is the load address of the table
	Address uint32

	// Entries holds up to 16 vectors; fewer when the first block is short
	Entries []Vector

	// covered holds the image's contiguous address ranges
	covered []firmware.Segment
}

// Partial reports whether fewer than 16 vectors were available.
func (vt *VectorTable) Partial() bool {
	return len(vt.Entries) < VectorTableSize/VectorSize
}

// StackPointer returns the initial stack pointer, if present.
func (vt *VectorTable) StackPointer() (uint32, bool) {
	return vt.entry(0)
}

// Reset returns the reset handler address, if present.
func (vt *VectorTable) Reset() (uint32, bool) {
	return vt.entry(1)
}

// ResetOffset returns the reset handler's offset from the table's load
// address, and whether the handler address is covered by the image.
//
// The Thumb bit (bit 0) of the vector is cleared first, so a vector of
// 0x00026401 loaded at 0x26000 gives offset 0x400, not 0x401.
func (vt *VectorTable) ResetOffset() (offset uint32, inImage bool) {
	reset, ok := vt.Reset()
	if !ok || reset&^1 < vt.Address {
		return 0, false
	}
	offset = reset&^1 - vt.Address
	_, _, inImage = vt.locate(reset &^ 1)
	return offset, inImage
}

// ResetCode returns up to n bytes of the image starting at the reset
// handler, Thumb bit cleared. Fewer bytes are returned when the handler's
// segment ends first. A handler outside the image gives ErrOutsideImage.
func (vt *VectorTable) ResetCode(n int) ([]byte, error) {
	reset, ok := vt.Reset()
	if !ok {
		return nil, fmt.Errorf("vector table has no reset vector")
	}
	seg, off, ok := vt.locate(reset &^ 1)
	if !ok {
		return nil, fmt.Errorf("%w: reset handler 0x%08X", ErrOutsideImage, reset)
	}
	end := min(off+n, len(seg.Data))
	return append([]byte(nil), seg.Data[off:end]...), nil
}

// locate finds the segment holding addr and the offset of addr inside it.
func (vt *VectorTable) locate(addr uint32) (firmware.Segment, int, bool) {
	for _, seg := range vt.covered {
		if addr >= seg.Address && uint64(addr-seg.Address) < uint64(len(seg.Data)) {
			return seg, int(addr - seg.Address), true
		}
	}
	return firmware.Segment{}, 0, false
}

func (vt *VectorTable) entry(i int) (uint32, bool) {
	if i >= len(vt.Entries) {
		return 0, false
	}
	return vt.Entries[i].Value, true
}

// Vectors interprets the start of the image as a vector table.
//
// The table is read from the lowest-addressed block, and only when that block
// loads at entry. Otherwise Vectors returns nil without error.
// Up to the first 64 payload bytes are decoded as little-endian words.
func Vectors(img *firmware.Image, entry uint32, names *VectorNames) (*VectorTable, error) {
	if img == nil || len(img.Records) == 0 {
		return nil, uf2.ErrEmptyImage
	}
	if names == nil {
		return nil, fmt.Errorf("vector names cannot be nil")
	}

	first := img.ByAddress()[0]
	if first.TargetAddr != entry {
		return nil, nil
	}

	n := min(VectorTableSize, len(first.Data), int(first.PayloadSize))

	covered, err := img.Segments()
	if err != nil {
		return nil, err
	}
	vt := &VectorTable{Address: first.TargetAddr, covered: covered}

	for off := 0; off+VectorSize <= n; off += VectorSize {
		idx := off / VectorSize
		vt.Entries = append(vt.Entries, Vector{
			Index: idx,
			Name:  names.Name(idx),
			Value: binary.LittleEndian.Uint32(first.Data[off:]),
		})
	}

	return vt, nil
}

// VectorsFromBinary interprets the start of a raw binary loaded at base as a
// vector table.
func VectorsFromBinary(bin []byte, base uint32, names *VectorNames) (*VectorTable, error) {
	if len(bin) == 0 {
		return nil, uf2.ErrEmptyImage
	}
	if uint64(len(bin)) >= 1<<32 {
		return nil, uf2.ErrAddressWrap
	}
	img := &firmware.Image{Records: []firmware.Record{{
		TargetAddr:  base,
		PayloadSize: uint32(len(bin)),
		Data:        bin,
	}}}
	return Vectors(img, base, names)
}
