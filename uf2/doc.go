// Package uf2 implements the UF2 (USB Flashing Format) block codec.
//
// This package encodes a single payload into a 512-byte UF2 block and decodes
// a 512-byte block back into a validated Block record.
//
// # Block Layout
//
// Every block occupies exactly 512 bytes on the wire:
//
//	[MAGIC0(4)][MAGIC1(4)][FLAGS(4)][ADDR(4)][SIZE(4)][BLOCK_NO(4)][NUM_BLOCKS(4)][FAMILY_ID(4)]
//	[DATA(476)]
//	[MAGIC_END(4)]
//
// Where:
//   - MAGIC0 = 0x0A324655 ("UF2\n")
//   - MAGIC1 = 0x9E5D5157
//   - MAGIC_END = 0x0AB16F30
//   - SIZE = number of payload bytes actually used in DATA (at most 476)
//   - All integers are unsigned 32-bit little-endian
//
// The family ID field is always present in the header. The 0x2000 flag only
// announces that the field carries meaningful data.
//
// # Encoding
//
//	raw, err := uf2.Encode(0x26000, payload, 0, 3, uf2.FamilyNRF52840, uf2.FlagFamilyIDPresent)
//
// # Decoding
//
//	blk, err := uf2.Decode(raw)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("block %d/%d at 0x%08X (%d bytes)\n",
//	    blk.BlockNo, blk.NumBlocks, blk.TargetAddr, blk.PayloadSize)
//
// # Error Handling
//
// Decode failures are reported with sentinel errors that work with errors.Is:
//
//	if errors.Is(err, uf2.ErrBadMagic) {
//	    // not a UF2 block
//	}
//
// MagicError carries the offending field and value, BlockError carries the
// position of a failing block inside a stream.
package uf2
