package analysis

import (
	"fmt"

	"github.com/moffa90/go-uf2/firmware"
	"github.com/moffa90/go-uf2/uf2"
)

// FindingKind classifies a coverage finding.
type FindingKind int

const (
	// Gap is an unfilled address range between two blocks
	Gap FindingKind = iota

	// Overlap is an address written by more than one block
	Overlap
)

func (k FindingKind) String() string {
	switch k {
	case Gap:
		return "gap"
	case Overlap:
		return "overlap"
	default:
		return fmt.Sprintf("FindingKind(%d)", int(k))
	}
}

// Finding is a gap or overlap between two address-adjacent blocks.
type Finding struct {
	Kind FindingKind

	// Start is the first unfilled address for a Gap, or the address where
	// the second block starts for an Overlap
	Start uint32

	// End is the first filled address after a Gap. Unused for Overlap.
	End uint32
}

// Size returns the gap length in bytes. It is zero for overlaps.
func (f Finding) Size() uint32 {
	if f.Kind != Gap {
		return 0
	}
	return f.End - f.Start
}

func (f Finding) String() string {
	if f.Kind == Overlap {
		return fmt.Sprintf("overlap at 0x%08X", f.Start)
	}
	return fmt.Sprintf("gap 0x%08X-0x%08X (%d bytes)", f.Start, f.End, f.Size())
}

// Coverage sorts the records by address and reports every adjacent pair
// whose boundary does not line up exactly.
//
// A pair where the first block ends before the second starts is a Gap; a pair
// where it ends after the second starts is an Overlap. End addresses that
// would pass 0xFFFFFFFF fail with uf2.ErrAddressWrap.
func Coverage(img *firmware.Image) ([]Finding, error) {
	if img == nil || len(img.Records) == 0 {
		return nil, uf2.ErrEmptyImage
	}

	recs := img.ByAddress()

	var findings []Finding
	for i := 0; i < len(recs)-1; i++ {
		end, err := recs[i].End()
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", recs[i].BlockNo, err)
		}

		next := recs[i+1].TargetAddr
		switch {
		case end < next:
			findings = append(findings, Finding{Kind: Gap, Start: end, End: next})
		case end > next:
			findings = append(findings, Finding{Kind: Overlap, Start: next})
		}
	}

	// the last block's end is not compared, but it must still be addressable
	last := recs[len(recs)-1]
	if _, err := last.End(); err != nil {
		return nil, fmt.Errorf("block %d: %w", last.BlockNo, err)
	}

	return findings, nil
}
