package analysis

import (
	"fmt"

	"github.com/moffa90/go-uf2/firmware"
	"github.com/moffa90/go-uf2/uf2"
)

// Span is the address range covered by one block.
type Span struct {
	BlockNo uint32

	// Start is the first address of the payload
	Start uint32

	// End is the first address past the payload
	End uint32
}

// Size returns the number of bytes in the span.
func (s Span) Size() uint32 {
	return s.End - s.Start
}

// Layout returns one span per record, in the order the blocks appeared in
// the stream.
func Layout(img *firmware.Image) ([]Span, error) {
	if img == nil || len(img.Records) == 0 {
		return nil, uf2.ErrEmptyImage
	}

	spans := make([]Span, 0, len(img.Records))
	for _, r := range img.Records {
		end, err := r.End()
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", r.BlockNo, err)
		}
		spans = append(spans, Span{BlockNo: r.BlockNo, Start: r.TargetAddr, End: end})
	}
	return spans, nil
}
