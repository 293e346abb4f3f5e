// Package firmware converts between raw firmware images and UF2 block streams.
//
// # Encoding
//
// EncodeImage splits a binary into chunks and returns a lazy sequence of
// 512-byte UF2 blocks:
//
//	blocks, err := firmware.EncodeImage(bin, 0x26000, firmware.DefaultChunkSize, uf2.FamilyNRF52840)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, raw := range blocks {
//	    if _, err := w.Write(raw); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// The sequence can be ranged more than once; every pass yields the same blocks.
//
// # Decoding
//
// DecodeReader reads 512-byte records from any io.Reader and accumulates them
// into an Image:
//
//	img, stats, err := firmware.DecodeReader(f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !stats.Complete() {
//	    fmt.Printf("stream declares %d blocks, found %d\n",
//	        stats.DeclaredBlocks, stats.ObservedBlocks)
//	}
//
// Decoding is all-or-nothing: the first bad block aborts the whole operation
// and no partial image is returned.
//
// # Intel HEX
//
// LoadIntelHex reads an Intel HEX file into address segments that can be fed
// to EncodeSegments, and Image.WriteIntelHex dumps a decoded image as Intel HEX.
package firmware
