package firmware

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/moffa90/go-uf2/uf2"
)

// ErrOverlap is returned when two records write the same address.
var ErrOverlap = errors.New("firmware: overlapping records")

// ErrSpanTooLarge is returned by Flat when the address span exceeds the limit.
var ErrSpanTooLarge = errors.New("firmware: address span too large")

// Segment is a contiguous run of bytes at a load address.
type Segment struct {
	// Address is the load address of the first byte
	Address uint32

	// Data is the segment content
	Data []byte
}

// Record is one decoded block as stored in an Image.
type Record struct {
	// TargetAddr is the flash address of the payload
	TargetAddr uint32

	// PayloadSize is the number of payload bytes
	PayloadSize uint32

	// Data is the payload
	Data []byte

	// BlockNo is the sequence number from the block header
	BlockNo uint32
}

// End returns the first address past the record's payload.
func (r Record) End() (uint32, error) {
	return uf2.AddAddr(r.TargetAddr, r.PayloadSize)
}

// Image is a decoded firmware image.
// Records are kept in the order their blocks appeared in the stream.
type Image struct {
	Records []Record
}

// Bytes reassembles the original binary by concatenating payloads in
// ascending block number order.
func (img *Image) Bytes() []byte {
	recs := slices.Clone(img.Records)
	slices.SortStableFunc(recs, func(a, b Record) int {
		return cmp.Compare(a.BlockNo, b.BlockNo)
	})

	size := 0
	for _, r := range recs {
		size += len(r.Data)
	}

	out := make([]byte, 0, size)
	for _, r := range recs {
		out = append(out, r.Data...)
	}
	return out
}

// ByAddress returns a copy of the records sorted by target address.
// Records with equal addresses keep their stream order.
func (img *Image) ByAddress() []Record {
	recs := slices.Clone(img.Records)
	slices.SortStableFunc(recs, func(a, b Record) int {
		return cmp.Compare(a.TargetAddr, b.TargetAddr)
	})
	return recs
}

// Segments merges address-adjacent records into contiguous segments.
// Records that overlap or leave a gap start a new segment.
func (img *Image) Segments() ([]Segment, error) {
	var segs []Segment
	var end uint32

	for _, r := range img.ByAddress() {
		recEnd, err := r.End()
		if err != nil {
			return nil, err
		}

		if len(segs) > 0 && r.TargetAddr == end {
			last := &segs[len(segs)-1]
			last.Data = append(last.Data, r.Data...)
		} else {
			segs = append(segs, Segment{
				Address: r.TargetAddr,
				Data:    slices.Clone(r.Data),
			})
		}
		end = recEnd
	}

	return segs, nil
}

// Flat lays the image out as one binary covering its whole address span,
// from the lowest record address to the highest end address. Bytes not
// covered by any record are set to fill.
//
// Overlapping records fail with ErrOverlap. A span longer than maxSize bytes
// fails with ErrSpanTooLarge.
func (img *Image) Flat(fill byte, maxSize uint64) (base uint32, data []byte, err error) {
	segs, err := img.Segments()
	if err != nil {
		return 0, nil, err
	}
	if len(segs) == 0 {
		return 0, nil, uf2.ErrEmptyImage
	}

	base = segs[0].Address
	var end uint64
	for _, seg := range segs {
		if uint64(seg.Address) < end {
			return 0, nil, fmt.Errorf("%w at 0x%08X", ErrOverlap, seg.Address)
		}
		end = uint64(seg.Address) + uint64(len(seg.Data))
	}

	size := end - uint64(base)
	if size > maxSize {
		return 0, nil, fmt.Errorf("%w: %d bytes from 0x%08X, limit %d", ErrSpanTooLarge, size, base, maxSize)
	}

	data = make([]byte, size)
	if fill != 0 {
		for i := range data {
			data[i] = fill
		}
	}
	for _, seg := range segs {
		copy(data[seg.Address-base:], seg.Data)
	}
	return base, data, nil
}
