// Package converter writes firmware images as UF2 streams.
//
// # Overview
//
// This package orchestrates the complete conversion sequence:
//   - Loading the image (raw binary or Intel HEX)
//   - Splitting it into UF2 blocks
//   - Writing the blocks to any io.Writer
//   - Decoding the written stream back and comparing it with the input
//
// # Basic Usage
//
//	bin, err := os.ReadFile("firmware.bin")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	f, err := os.Create("firmware.uf2")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	conv := converter.New(f)
//	if err := conv.Convert(context.Background(), bin, 0x26000); err != nil {
//	    log.Fatal(err)
//	}
//
// # Configuration Options
//
// Customize behavior with functional options:
//
//	conv := converter.New(f,
//	    converter.WithProgressCallback(progressFunc),
//	    converter.WithLogger(myLogger),
//	    converter.WithChunkSize(476),
//	    converter.WithFamilyID(uf2.FamilyRP2040),
//	    converter.WithVerifyAfterWrite(true),
//	)
//
// # Error Handling
//
// The package provides structured error types:
//   - WriteError: the output rejected a block
//   - BlockMismatchError: a written block carries the wrong address
//   - VerificationError: the written stream does not reproduce the input
//
// Errors from the uf2 package (ErrAddressWrap, ErrEmptyImage, ...) are
// wrapped and can be matched with errors.Is.
package converter
