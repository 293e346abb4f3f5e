package converter

import (
	"github.com/moffa90/go-uf2/firmware"
	"github.com/moffa90/go-uf2/uf2"
)

// Config holds the converter configuration.
type Config struct {
	// ProgressCallback is called during conversion to report progress (optional)
	ProgressCallback ProgressCallback

	// Logger is used for logging operations (optional)
	Logger Logger

	// ChunkSize is the payload size per UF2 block
	// Default is 256 bytes
	ChunkSize int

	// FamilyID is written into every block header
	// Default is the nRF52840 family
	FamilyID uint32

	// VerifyAfterWrite decodes the produced stream and compares it with the input
	VerifyAfterWrite bool
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		ChunkSize:        firmware.DefaultChunkSize,
		FamilyID:         uf2.FamilyNRF52840,
		VerifyAfterWrite: true,
	}
}

// Option is a functional option for configuring the Converter.
type Option func(*Config)

// WithProgressCallback sets a callback function to track conversion progress.
//
// Example:
//
//	conv := converter.New(f,
//	    converter.WithProgressCallback(func(p converter.Progress) {
//	        fmt.Printf("%.1f%% complete\n", p.Percentage)
//	    }),
//	)
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for the converter operations.
//
// Example:
//
//	conv := converter.New(f, converter.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithChunkSize sets the payload size per block.
// Values outside 256-476 are ignored.
//
// Example:
//
//	conv := converter.New(f, converter.WithChunkSize(476))
func WithChunkSize(size int) Option {
	return func(c *Config) {
		if size >= firmware.MinChunkSize && size <= firmware.MaxChunkSize {
			c.ChunkSize = size
		}
	}
}

// WithFamilyID sets the family ID written into every block.
//
// Example:
//
//	conv := converter.New(f, converter.WithFamilyID(uf2.FamilyRP2040))
func WithFamilyID(id uint32) Option {
	return func(c *Config) {
		c.FamilyID = id
	}
}

// WithVerifyAfterWrite enables or disables read-back verification.
// Default is true.
//
// Example:
//
//	conv := converter.New(f, converter.WithVerifyAfterWrite(false))
func WithVerifyAfterWrite(verify bool) Option {
	return func(c *Config) {
		c.VerifyAfterWrite = verify
	}
}
