package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-uf2/converter"
	"github.com/moffa90/go-uf2/firmware"
	"github.com/moffa90/go-uf2/uf2"
)

func newConvCmd(verbose *bool) *cobra.Command {
	var (
		baseStr, familyStr string
		chunkSize          int
		noVerify           bool
	)

	cmd := &cobra.Command{
		Use:   "conv <input.bin|input.hex> <output.uf2>",
		Short: "Convert a raw binary or Intel HEX file to UF2",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := parseUint32(baseStr)
			if err != nil {
				return fmt.Errorf("--base: %w", err)
			}
			family, err := parseUint32(familyStr)
			if err != nil {
				return fmt.Errorf("--family: %w", err)
			}
			if chunkSize < firmware.MinChunkSize || chunkSize > firmware.MaxChunkSize {
				return fmt.Errorf("--chunk must be between %d and %d", firmware.MinChunkSize, firmware.MaxChunkSize)
			}

			in, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open input: %w", err)
			}
			defer func() { _ = in.Close() }()

			out, err := os.Create(args[1])
			if err != nil {
				return fmt.Errorf("failed to create output: %w", err)
			}

			var blocks int
			conv := converter.New(out,
				converter.WithLogger(newLogger(*verbose)),
				converter.WithChunkSize(chunkSize),
				converter.WithFamilyID(family),
				converter.WithVerifyAfterWrite(!noVerify),
				converter.WithProgressCallback(func(p converter.Progress) {
					blocks = p.TotalBlocks
				}),
			)

			if strings.EqualFold(filepath.Ext(args[0]), ".hex") {
				err = conv.ConvertHex(cmd.Context(), in)
			} else {
				var bin []byte
				bin, err = io.ReadAll(in)
				if err == nil {
					err = conv.Convert(cmd.Context(), bin, base)
				}
			}
			if err != nil {
				_ = out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("failed to close output: %w", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Created %s: %d blocks, family 0x%08X\n", args[1], blocks, family)

			written, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("failed to reopen output: %w", err)
			}
			defer func() { _ = written.Close() }()
			return printFirstBlockCheck(w, written)
		},
	}

	cmd.Flags().StringVar(&baseStr, "base", "0x26000", "load address for raw binaries")
	cmd.Flags().StringVar(&familyStr, "family", fmt.Sprintf("0x%08X", uf2.FamilyNRF52840), "family ID")
	cmd.Flags().IntVar(&chunkSize, "chunk", firmware.DefaultChunkSize, "payload bytes per block")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "skip read-back verification")

	return cmd
}
