package firmware

import (
	"io"
	"iter"

	"github.com/moffa90/go-uf2/uf2"
)

// DecodeStats summarises a decoded block stream.
type DecodeStats struct {
	// ObservedBlocks is the number of blocks actually decoded
	ObservedBlocks uint32

	// DeclaredBlocks is the block count declared by the first block
	DeclaredBlocks uint32

	// FamilyID is the family ID of the first block
	FamilyID uint32

	// Flags is the flag word of the first block
	Flags uint32

	// DuplicateBlockNos lists block numbers seen more than once, in stream order
	DuplicateBlockNos []uint32

	// PayloadBytes is the sum of all payload sizes
	PayloadBytes uint64
}

// Missing reports whether fewer blocks were found than declared.
func (s *DecodeStats) Missing() bool {
	return s.ObservedBlocks < s.DeclaredBlocks
}

// Excess reports whether more blocks were found than declared.
func (s *DecodeStats) Excess() bool {
	return s.ObservedBlocks > s.DeclaredBlocks
}

// CountMismatch reports whether the observed block count differs from the
// declared one in either direction.
func (s *DecodeStats) CountMismatch() bool {
	return s.ObservedBlocks != s.DeclaredBlocks
}

// Complete reports whether the stream held exactly the declared number of
// blocks with no repeated block numbers.
func (s *DecodeStats) Complete() bool {
	return !s.CountMismatch() && len(s.DuplicateBlockNos) == 0
}

// DecodeImage decodes a sequence of raw 512-byte blocks into an Image.
//
// The first bad block aborts decoding; its error is returned wrapped in a
// uf2.BlockError and no image is returned. An empty sequence returns
// uf2.ErrEmptyImage.
//
// Repeated block numbers are not an error. They are kept in the image and
// listed in DecodeStats.DuplicateBlockNos.
func DecodeImage(blocks iter.Seq[[]byte]) (*Image, *DecodeStats, error) {
	return decode(func(yield func([]byte, error) bool) {
		for raw := range blocks {
			if !yield(raw, nil) {
				return
			}
		}
	})
}

// DecodeReader decodes a UF2 stream read from r.
// A stream that ends in the middle of a block fails with uf2.ErrTruncated.
func DecodeReader(r io.Reader) (*Image, *DecodeStats, error) {
	return decode(NewReader(r).Blocks())
}

func decode(blocks iter.Seq2[[]byte, error]) (*Image, *DecodeStats, error) {
	img := &Image{}
	stats := &DecodeStats{}
	seen := make(map[uint32]struct{})

	index := 0
	for raw, err := range blocks {
		if err != nil {
			return nil, nil, &uf2.BlockError{Index: index, Err: err}
		}

		blk, err := uf2.Decode(raw)
		if err != nil {
			return nil, nil, &uf2.BlockError{Index: index, Err: err}
		}

		if index == 0 {
			stats.DeclaredBlocks = blk.NumBlocks
			stats.FamilyID = blk.FamilyID
			stats.Flags = blk.Flags
		}

		if _, dup := seen[blk.BlockNo]; dup {
			stats.DuplicateBlockNos = append(stats.DuplicateBlockNos, blk.BlockNo)
		} else {
			seen[blk.BlockNo] = struct{}{}
		}

		img.Records = append(img.Records, Record{
			TargetAddr:  blk.TargetAddr,
			PayloadSize: blk.PayloadSize,
			Data:        blk.Data,
			BlockNo:     blk.BlockNo,
		})
		stats.PayloadBytes += uint64(blk.PayloadSize)
		index++
	}

	if index == 0 {
		return nil, nil, uf2.ErrEmptyImage
	}
	stats.ObservedBlocks = uint32(index)

	return img, stats, nil
}
