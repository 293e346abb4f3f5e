package converter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/moffa90/go-uf2/firmware"
	"github.com/moffa90/go-uf2/uf2"
)

// Converter turns firmware images into UF2 streams written to an io.Writer.
// The writer can be a file, the mass storage drive exposed by a UF2
// bootloader, or an in-memory buffer.
//
// A Converter must not be used concurrently; each call writes to the same output.
type Converter struct {
	out    io.Writer
	config Config
}

// New creates a new Converter writing to out with the given options.
//
// Example:
//
//	f, _ := os.Create("firmware.uf2")
//	conv := converter.New(f,
//	    converter.WithFamilyID(uf2.FamilyNRF52840),
//	    converter.WithProgressCallback(progressFunc),
//	)
func New(out io.Writer, opts ...Option) *Converter {
	if out == nil {
		panic("output cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Converter{
		out:    out,
		config: cfg,
	}
}

// Config returns the effective configuration.
func (c *Converter) Config() Config {
	return c.config
}

// Convert writes bin, loaded at baseAddr, as a UF2 stream:
//  1. Validate the input and plan the blocks
//  2. Write all blocks with progress tracking
//  3. Decode the written stream and compare it with bin (if enabled)
//
// The operation can be cancelled via context between blocks.
//
// Example:
//
//	bin, _ := os.ReadFile("firmware.bin")
//	err := conv.Convert(context.Background(), bin, 0x26000)
func (c *Converter) Convert(ctx context.Context, bin []byte, baseAddr uint32) error {
	return c.convert(ctx, []firmware.Segment{{Address: baseAddr, Data: bin}})
}

// ConvertHex reads an Intel HEX stream and writes all of its segments as a
// single UF2 stream.
func (c *Converter) ConvertHex(ctx context.Context, r io.Reader) error {
	segs, err := firmware.LoadIntelHex(r)
	if err != nil {
		return fmt.Errorf("load hex: %w", err)
	}

	c.logDebug("loaded intel hex", "segments", len(segs))

	return c.convert(ctx, segs)
}

// Verify decodes the UF2 stream read from r and checks that it reproduces
// bin at baseAddr with the configured chunk size and family ID.
func (c *Converter) Verify(ctx context.Context, r io.Reader, bin []byte, baseAddr uint32) error {
	return c.verify(ctx, r, []firmware.Segment{{Address: baseAddr, Data: bin}})
}

func (c *Converter) convert(ctx context.Context, segs []firmware.Segment) error {
	startTime := time.Now()

	// Phase 1: Plan blocks
	c.reportProgress(Progress{
		Phase:      PhaseEncoding,
		Percentage: 0,
	})

	blocks, err := firmware.EncodeSegments(segs, c.config.ChunkSize, c.config.FamilyID)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	total := countBlocks(segs, c.config.ChunkSize)
	if total == 0 {
		return fmt.Errorf("nothing to convert: %w", uf2.ErrEmptyImage)
	}

	c.logDebug("encoding image",
		"segments", len(segs),
		"blocks", total,
		"chunk_size", c.config.ChunkSize,
		"family_id", fmt.Sprintf("0x%08X", c.config.FamilyID),
	)

	// Phase 2: Write blocks
	out := c.out
	var written bytes.Buffer
	if c.config.VerifyAfterWrite {
		written.Grow(total * uf2.BlockSize)
		out = io.MultiWriter(c.out, &written)
	}

	bytesWritten := 0
	for n, raw := range blocks {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled: %w", err)
		}

		if _, err := out.Write(raw); err != nil {
			c.logError("write failed", "block", n, "error", err)
			return &WriteError{BlockNo: n, Err: err}
		}
		bytesWritten += len(raw)

		// Report progress (2% to 90%)
		percentage := 2 + (float64(n+1)/float64(total))*88
		c.reportProgress(Progress{
			Phase:        PhaseWriting,
			CurrentBlock: n + 1,
			TotalBlocks:  total,
			Percentage:   percentage,
			BytesWritten: bytesWritten,
			ElapsedTime:  time.Since(startTime),
		})
	}

	// Phase 3: Verify
	if c.config.VerifyAfterWrite {
		c.reportProgress(Progress{
			Phase:        PhaseVerifying,
			CurrentBlock: total,
			TotalBlocks:  total,
			Percentage:   92,
			BytesWritten: bytesWritten,
			ElapsedTime:  time.Since(startTime),
		})

		if err := c.verify(ctx, &written, segs); err != nil {
			return fmt.Errorf("verify: %w", err)
		}
	}

	// Complete
	c.reportProgress(Progress{
		Phase:        PhaseComplete,
		CurrentBlock: total,
		TotalBlocks:  total,
		Percentage:   100,
		BytesWritten: bytesWritten,
		ElapsedTime:  time.Since(startTime),
	})

	c.logInfo("conversion complete",
		"blocks", total,
		"bytes", bytesWritten,
		"elapsed", time.Since(startTime).String(),
	)

	return nil
}

// verify decodes r and compares every block with the chunk it should carry.
func (c *Converter) verify(ctx context.Context, r io.Reader, segs []firmware.Segment) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cancelled: %w", err)
	}

	img, stats, err := firmware.DecodeReader(r)
	if err != nil {
		return err
	}

	if !stats.Complete() {
		return &VerificationError{
			Reason: fmt.Sprintf("stream declares %d blocks, found %d (%d duplicates)",
				stats.DeclaredBlocks, stats.ObservedBlocks, len(stats.DuplicateBlockNos)),
		}
	}

	if stats.FamilyID != c.config.FamilyID {
		return &VerificationError{
			Reason: fmt.Sprintf("family ID 0x%08X, expected 0x%08X", stats.FamilyID, c.config.FamilyID),
		}
	}

	want := countBlocks(segs, c.config.ChunkSize)
	if len(img.Records) != want {
		return &VerificationError{
			Reason: fmt.Sprintf("found %d blocks, expected %d", len(img.Records), want),
		}
	}

	i := 0
	for _, seg := range segs {
		for off := 0; off < len(seg.Data); off += c.config.ChunkSize {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("cancelled: %w", err)
			}

			rec := img.Records[i]
			addr := seg.Address + uint32(off)
			if rec.BlockNo != uint32(i) || rec.TargetAddr != addr {
				return &BlockMismatchError{
					BlockNo:      rec.BlockNo,
					ExpectedAddr: addr,
					ActualAddr:   rec.TargetAddr,
				}
			}

			end := min(off+c.config.ChunkSize, len(seg.Data))
			if !bytes.Equal(rec.Data, seg.Data[off:end]) {
				return &VerificationError{
					Reason: fmt.Sprintf("block %d payload differs from input", i),
				}
			}
			i++
		}
	}

	c.logDebug("stream verified", "blocks", i)

	return nil
}

// countBlocks returns the number of blocks EncodeSegments will produce.
func countBlocks(segs []firmware.Segment, chunkSize int) int {
	n := 0
	for _, seg := range segs {
		n += (len(seg.Data) + chunkSize - 1) / chunkSize
	}
	return n
}

// reportProgress calls the progress callback if configured.
func (c *Converter) reportProgress(progress Progress) {
	if c.config.ProgressCallback != nil {
		c.config.ProgressCallback(progress)
	}
}

// logDebug logs a debug message if a logger is configured.
func (c *Converter) logDebug(msg string, keysAndValues ...interface{}) {
	if c.config.Logger != nil {
		c.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (c *Converter) logInfo(msg string, keysAndValues ...interface{}) {
	if c.config.Logger != nil {
		c.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (c *Converter) logError(msg string, keysAndValues ...interface{}) {
	if c.config.Logger != nil {
		c.config.Logger.Error(msg, keysAndValues...)
	}
}
