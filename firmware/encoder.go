package firmware

import (
	"fmt"
	"iter"
	"math"

	"github.com/moffa90/go-uf2/uf2"
)

// Chunk size limits for EncodeImage.
const (
	// MinChunkSize is the smallest payload size per block
	MinChunkSize = 256

	// MaxChunkSize is the largest payload size per block (the whole data region)
	MaxChunkSize = uf2.DataSize

	// DefaultChunkSize is the payload size most bootloaders expect
	DefaultChunkSize = 256
)

// EncodeImage splits bin into chunkSize-byte chunks and returns the UF2 blocks
// that load it at baseAddr.
//
// Chunk i is written to baseAddr + i*chunkSize with block number i, and every
// block carries familyID with FlagFamilyIDPresent set. The last chunk may be
// short; its padding is added by the block codec.
//
// The returned sequence yields (block number, 512-byte block) pairs. Nothing is
// encoded until it is ranged over, and it can be ranged any number of times.
func EncodeImage(bin []byte, baseAddr uint32, chunkSize int, familyID uint32) (iter.Seq2[int, []byte], error) {
	return EncodeSegments([]Segment{{Address: baseAddr, Data: bin}}, chunkSize, familyID)
}

// EncodeSegments encodes several segments into a single block stream.
// Block numbers run continuously across segments and every block declares the
// total block count of the stream.
func EncodeSegments(segs []Segment, chunkSize int, familyID uint32) (iter.Seq2[int, []byte], error) {
	if chunkSize < MinChunkSize || chunkSize > MaxChunkSize {
		return nil, fmt.Errorf("invalid chunk size %d: must be between %d and %d", chunkSize, MinChunkSize, MaxChunkSize)
	}

	total := 0
	for i, seg := range segs {
		if uint64(len(seg.Data)) > math.MaxUint32 {
			return nil, fmt.Errorf("segment %d: %w", i, uf2.ErrAddressWrap)
		}
		if _, err := uf2.AddAddr(seg.Address, uint32(len(seg.Data))); err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		total += (len(seg.Data) + chunkSize - 1) / chunkSize
	}
	if uint64(total) > math.MaxUint32 {
		return nil, fmt.Errorf("too many blocks: %d", total)
	}
	numBlocks := uint32(total)

	return func(yield func(int, []byte) bool) {
		blockNo := 0
		for _, seg := range segs {
			for off := 0; off < len(seg.Data); off += chunkSize {
				end := min(off+chunkSize, len(seg.Data))

				raw, err := uf2.Encode(
					seg.Address+uint32(off),
					seg.Data[off:end],
					uint32(blockNo),
					numBlocks,
					familyID,
					uf2.FlagFamilyIDPresent,
				)
				if err != nil {
					// chunkSize was validated against DataSize above
					panic(err)
				}

				if !yield(blockNo, raw) {
					return
				}
				blockNo++
			}
		}
	}, nil
}

// Flatten collects an encoded block sequence into one contiguous UF2 stream.
func Flatten(blocks iter.Seq2[int, []byte]) []byte {
	var out []byte
	for _, raw := range blocks {
		out = append(out, raw...)
	}
	return out
}
