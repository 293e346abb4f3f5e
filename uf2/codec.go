package uf2

import (
	"encoding/binary"
	"fmt"
)

// Encode builds a single 512-byte block.
//
// The payload is copied left-aligned into the data region and the rest of the
// region is zero-filled. PayloadSize is set to len(payload), not DataSize.
// Payloads longer than DataSize are rejected rather than truncated.
//
// Example:
//
//	raw, err := uf2.Encode(0x26000, chunk, 0, 3, uf2.FamilyNRF52840, uf2.FlagFamilyIDPresent)
func Encode(targetAddr uint32, payload []byte, blockNo, numBlocks, familyID, flags uint32) ([]byte, error) {
	if len(payload) > DataSize {
		return nil, fmt.Errorf("%w: got %d bytes, maximum is %d", ErrPayloadTooLarge, len(payload), DataSize)
	}

	raw := make([]byte, BlockSize)

	binary.LittleEndian.PutUint32(raw[offMagic0:], MagicStart0)
	binary.LittleEndian.PutUint32(raw[offMagic1:], MagicStart1)
	binary.LittleEndian.PutUint32(raw[offFlags:], flags)
	binary.LittleEndian.PutUint32(raw[offAddr:], targetAddr)
	binary.LittleEndian.PutUint32(raw[offSize:], uint32(len(payload)))
	binary.LittleEndian.PutUint32(raw[offBlockNo:], blockNo)
	binary.LittleEndian.PutUint32(raw[offNumBlocks:], numBlocks)
	binary.LittleEndian.PutUint32(raw[offFamilyID:], familyID)

	// make already zeroed the padding
	copy(raw[HeaderSize:footerOffset], payload)

	binary.LittleEndian.PutUint32(raw[footerOffset:], MagicEnd)

	return raw, nil
}

// MarshalBinary encodes the block back into its 512-byte wire form.
// The magic fields are always written with their constant values.
func (b *Block) MarshalBinary() ([]byte, error) {
	return Encode(b.TargetAddr, b.Data, b.BlockNo, b.NumBlocks, b.FamilyID, b.Flags)
}

// Decode validates a 512-byte block and returns its structured form.
//
// Validation order:
//  1. raw must be exactly BlockSize bytes (ErrTruncated)
//  2. magic0, magic1 and magic_end must match (ErrBadMagic)
//  3. PayloadSize must not exceed DataSize (ErrPayloadOverflow)
//
// Bytes in the data region past PayloadSize are ignored, not checked for zero.
func Decode(raw []byte) (*Block, error) {
	if len(raw) != BlockSize {
		return nil, fmt.Errorf("%w: got %d bytes, expected %d", ErrTruncated, len(raw), BlockSize)
	}

	blk := &Block{
		MagicStart0: binary.LittleEndian.Uint32(raw[offMagic0:]),
		MagicStart1: binary.LittleEndian.Uint32(raw[offMagic1:]),
		Flags:       binary.LittleEndian.Uint32(raw[offFlags:]),
		TargetAddr:  binary.LittleEndian.Uint32(raw[offAddr:]),
		PayloadSize: binary.LittleEndian.Uint32(raw[offSize:]),
		BlockNo:     binary.LittleEndian.Uint32(raw[offBlockNo:]),
		NumBlocks:   binary.LittleEndian.Uint32(raw[offNumBlocks:]),
		FamilyID:    binary.LittleEndian.Uint32(raw[offFamilyID:]),
		MagicEnd:    binary.LittleEndian.Uint32(raw[footerOffset:]),
	}

	if err := checkMagic(blk); err != nil {
		return nil, err
	}

	if blk.PayloadSize > DataSize {
		return nil, fmt.Errorf("%w: declared %d bytes, maximum is %d", ErrPayloadOverflow, blk.PayloadSize, DataSize)
	}

	blk.Data = make([]byte, blk.PayloadSize)
	copy(blk.Data, raw[HeaderSize:HeaderSize+blk.PayloadSize])

	return blk, nil
}

// checkMagic verifies the three framing constants.
func checkMagic(blk *Block) error {
	switch {
	case blk.MagicStart0 != MagicStart0:
		return &MagicError{Field: "magic0", Got: blk.MagicStart0, Want: MagicStart0}
	case blk.MagicStart1 != MagicStart1:
		return &MagicError{Field: "magic1", Got: blk.MagicStart1, Want: MagicStart1}
	case blk.MagicEnd != MagicEnd:
		return &MagicError{Field: "magic_end", Got: blk.MagicEnd, Want: MagicEnd}
	}
	return nil
}
