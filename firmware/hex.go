package firmware

import (
	"fmt"
	"io"

	"github.com/marcinbor85/gohex"
)

// HexLineLength is the number of data bytes per Intel HEX record written by
// WriteIntelHex.
const HexLineLength = 16

// LoadIntelHex parses an Intel HEX stream into its data segments.
func LoadIntelHex(r io.Reader) ([]Segment, error) {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(r); err != nil {
		return nil, fmt.Errorf("parse intel hex: %w", err)
	}

	dataSegs := mem.GetDataSegments()
	if len(dataSegs) == 0 {
		return nil, fmt.Errorf("no data segments found")
	}

	segs := make([]Segment, 0, len(dataSegs))
	for _, s := range dataSegs {
		segs = append(segs, Segment{Address: s.Address, Data: s.Data})
	}
	return segs, nil
}

// WriteIntelHex writes the image as Intel HEX.
// Overlapping records cannot be represented and return an error.
func (img *Image) WriteIntelHex(w io.Writer) error {
	segs, err := img.Segments()
	if err != nil {
		return err
	}

	mem := gohex.NewMemory()
	for _, s := range segs {
		if err := mem.AddBinary(s.Address, s.Data); err != nil {
			return fmt.Errorf("segment at 0x%08X: %w", s.Address, err)
		}
	}

	return mem.DumpIntelHex(w, HexLineLength)
}
