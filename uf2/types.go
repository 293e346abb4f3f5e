package uf2

// Block is a decoded UF2 block.
// Data holds exactly PayloadSize bytes; padding from the wire is not retained.
type Block struct {
	// MagicStart0 is the first header word as read from the wire
	MagicStart0 uint32

	// MagicStart1 is the second header word as read from the wire
	MagicStart1 uint32

	// Flags is the informational flag word
	Flags uint32

	// TargetAddr is the flash address the payload is written to
	TargetAddr uint32

	// PayloadSize is the number of meaningful bytes in the data region
	PayloadSize uint32

	// BlockNo is the 0-based sequence number of this block
	BlockNo uint32

	// NumBlocks is the total number of blocks declared by the stream
	NumBlocks uint32

	// FamilyID identifies the target chip family (opaque)
	FamilyID uint32

	// Data is the payload
	Data []byte

	// MagicEnd is the footer word as read from the wire
	MagicEnd uint32
}

// HasFamilyID reports whether the family ID present flag is set.
func (b *Block) HasFamilyID() bool {
	return b.Flags&FlagFamilyIDPresent != 0
}

// End returns the first address past the payload.
func (b *Block) End() (uint32, error) {
	return AddAddr(b.TargetAddr, b.PayloadSize)
}
