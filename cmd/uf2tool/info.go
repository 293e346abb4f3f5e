package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-uf2/analysis"
	"github.com/moffa90/go-uf2/firmware"
	"github.com/moffa90/go-uf2/uf2"
)

func newInfoCmd() *cobra.Command {
	var entryStr string

	cmd := &cobra.Command{
		Use:   "info <file.uf2>",
		Short: "Show block layout, address coverage and vector table of a UF2 file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := parseUint32(entryStr)
			if err != nil {
				return fmt.Errorf("--entry: %w", err)
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer func() { _ = f.Close() }()

			img, stats, err := firmware.DecodeReader(f)
			if err != nil {
				return err
			}

			report, err := analysis.Analyze(img, entry, analysis.CortexM)
			if err != nil {
				return err
			}

			printInfo(cmd.OutOrStdout(), args[0], stats, report)
			return nil
		},
	}

	cmd.Flags().StringVar(&entryStr, "entry", fmt.Sprintf("0x%X", analysis.DefaultEntryAddress), "expected vector table address")

	return cmd
}

func printInfo(w io.Writer, name string, stats *firmware.DecodeStats, report *analysis.Report) {
	fmt.Fprintf(w, "=== UF2 File Analysis: %s ===\n", name)
	fmt.Fprintf(w, "Flags:           0x%08X\n", stats.Flags)
	fmt.Fprintf(w, "  familyID flag:  %v\n", stats.Flags&uf2.FlagFamilyIDPresent != 0)
	fmt.Fprintf(w, "Family ID:       0x%08X\n", stats.FamilyID)
	fmt.Fprintf(w, "Declared blocks: %d\n", stats.DeclaredBlocks)
	fmt.Fprintf(w, "Blocks read:     %d\n", stats.ObservedBlocks)
	fmt.Fprintf(w, "Payload bytes:   %d\n", stats.PayloadBytes)
	switch {
	case stats.Missing():
		fmt.Fprintf(w, "WARNING: %d blocks missing\n", stats.DeclaredBlocks-stats.ObservedBlocks)
	case stats.Excess():
		fmt.Fprintf(w, "WARNING: %d blocks more than declared\n", stats.ObservedBlocks-stats.DeclaredBlocks)
	}
	for _, n := range stats.DuplicateBlockNos {
		fmt.Fprintf(w, "WARNING: block number %d repeated\n", n)
	}

	fmt.Fprintln(w, "\nBlock layout:")
	for _, s := range report.Layout {
		fmt.Fprintf(w, "  Block %d: 0x%08X - 0x%08X (%d bytes)\n", s.BlockNo, s.Start, s.End, s.Size())
	}

	if vt := report.Vectors; vt != nil {
		fmt.Fprintf(w, "\nVector table at 0x%08X:\n", vt.Address)
		printVectors(w, vt)
		if off, ok := vt.ResetOffset(); ok {
			fmt.Fprintf(w, "  Reset handler at image offset 0x%X\n", off)
		} else if _, has := vt.Reset(); has {
			fmt.Fprintln(w, "  WARNING: reset handler points outside the image")
		}
	}

	fmt.Fprintln(w, "\nAddress coverage:")
	if report.Clean() {
		fmt.Fprintln(w, "  contiguous")
	}
	for _, f := range report.Coverage {
		fmt.Fprintf(w, "  %s\n", f)
	}
}
