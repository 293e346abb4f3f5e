package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-uf2/analysis"
	"github.com/moffa90/go-uf2/firmware"
)

// maxFlatSize bounds the .bin output of images with large address gaps.
const maxFlatSize = 64 << 20

func newUnpackCmd() *cobra.Command {
	var fillStr string

	cmd := &cobra.Command{
		Use:   "unpack <file.uf2> <output.bin|output.hex>",
		Short: "Extract the firmware image from a UF2 file",
		Long: `Extract the firmware image from a UF2 file.

A .hex output keeps every block at its address. A .bin output covers the
span from the lowest to the highest block address; gaps are filled with
the --fill byte and overlapping blocks are refused.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fill, err := parseUint32(fillStr)
			if err != nil || fill > 0xFF {
				return fmt.Errorf("--fill must be a byte value, got %q", fillStr)
			}

			in, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer func() { _ = in.Close() }()

			img, stats, err := firmware.DecodeReader(in)
			if err != nil {
				return err
			}
			if !stats.Complete() {
				return fmt.Errorf("incomplete stream: declared %d blocks, found %d", stats.DeclaredBlocks, stats.ObservedBlocks)
			}

			var buf bytes.Buffer
			w := cmd.OutOrStdout()

			if strings.EqualFold(filepath.Ext(args[1]), ".hex") {
				if err := img.WriteIntelHex(&buf); err != nil {
					return err
				}
				fmt.Fprintf(w, "Wrote %s: %d blocks\n", args[1], len(img.Records))
			} else {
				findings, err := analysis.Coverage(img)
				if err != nil {
					return err
				}
				for _, f := range findings {
					if f.Kind == analysis.Overlap {
						return fmt.Errorf("cannot flatten image: %s", f)
					}
				}

				base, data, err := img.Flat(byte(fill), maxFlatSize)
				if errors.Is(err, firmware.ErrSpanTooLarge) {
					return fmt.Errorf("%w; write a .hex file instead", err)
				}
				if err != nil {
					return err
				}
				buf.Write(data)

				for _, f := range findings {
					fmt.Fprintf(w, "Filled %s with 0x%02X\n", f, fill)
				}
				fmt.Fprintf(w, "Wrote %s: %d bytes from 0x%08X\n", args[1], len(data), base)
			}

			if err := os.WriteFile(args[1], buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fillStr, "fill", "0xFF", "byte written into address gaps of a .bin output")

	return cmd
}
