package uf2

// Magic numbers that frame every block.
const (
	// MagicStart0 is the first header word ("UF2\n")
	MagicStart0 = 0x0A324655

	// MagicStart1 is the second header word
	MagicStart1 = 0x9E5D5157

	// MagicEnd is the footer word
	MagicEnd = 0x0AB16F30
)

// Block geometry in bytes.
const (
	// BlockSize is the fixed size of a block on the wire
	BlockSize = 512

	// HeaderSize is the size of the eight-word header
	HeaderSize = 32

	// DataSize is the size of the payload region
	DataSize = 476

	// FooterSize is the size of the MagicEnd footer
	FooterSize = 4

	// footerOffset is where MagicEnd starts
	footerOffset = HeaderSize + DataSize
)

// Header field offsets.
const (
	offMagic0    = 0
	offMagic1    = 4
	offFlags     = 8
	offAddr      = 12
	offSize      = 16
	offBlockNo   = 20
	offNumBlocks = 24
	offFamilyID  = 28
)

// Flag bits. None of them change the wire layout.
const (
	// FlagNotMainFlash marks a block that should not be written to main flash
	FlagNotMainFlash = 0x00000001

	// FlagFileContainer marks a block carrying file container data
	FlagFileContainer = 0x00001000

	// FlagFamilyIDPresent announces that the family ID field is meaningful
	FlagFamilyIDPresent = 0x00002000

	// FlagMD5Present announces an MD5 checksum at the end of the payload region
	FlagMD5Present = 0x00004000

	// FlagExtensionTags announces extension tags after the payload
	FlagExtensionTags = 0x00008000
)

// Well-known family IDs. The codec never validates against these.
const (
	FamilyNRF52840 = 0xADA52840
	FamilySAMD21   = 0x68ED2B88
	FamilySAMD51   = 0x55114460
	FamilyRP2040   = 0xE48BFF56
	FamilySTM32F4  = 0x57755A57
)
