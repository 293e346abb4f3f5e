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

// resetDumpSize is the number of bytes shown at the reset handler.
const resetDumpSize = 16

func newCheckCmd() *cobra.Command {
	var baseStr string

	cmd := &cobra.Command{
		Use:   "check <file.bin>",
		Short: "Show the vector table and reset handler of a raw binary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := parseUint32(baseStr)
			if err != nil {
				return fmt.Errorf("--base: %w", err)
			}

			bin, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}

			vt, err := analysis.VectorsFromBinary(bin, base, analysis.CortexM)
			if err != nil {
				return err
			}

			return printCheck(cmd.OutOrStdout(), len(bin), vt)
		},
	}

	cmd.Flags().StringVar(&baseStr, "base", fmt.Sprintf("0x%X", analysis.DefaultEntryAddress), "load address of the binary")

	return cmd
}

// printCheck prints the vector table of a raw binary and the first bytes of
// its reset handler. A reset handler outside the binary is returned as error.
func printCheck(w io.Writer, size int, vt *analysis.VectorTable) error {
	fmt.Fprintf(w, "Binary size: %d bytes\n\n", size)
	fmt.Fprintf(w, "First %d vectors (loaded at 0x%08X):\n", len(vt.Entries), vt.Address)
	printVectors(w, vt)

	reset, ok := vt.Reset()
	if !ok {
		return fmt.Errorf("binary too short for a reset vector")
	}
	fmt.Fprintf(w, "\nReset vector points to: 0x%08X\n", reset)

	code, err := vt.ResetCode(resetDumpSize)
	if err != nil {
		return fmt.Errorf("reset handler outside the %d-byte binary: %w", size, err)
	}
	off, _ := vt.ResetOffset()
	fmt.Fprintf(w, "Binary offset for Reset_Handler: 0x%X (offset %d in binary)\n", off, off)
	fmt.Fprintf(w, "First %d bytes at Reset_Handler:\n % X\n", len(code), code)
	return nil
}

func printVectors(w io.Writer, vt *analysis.VectorTable) {
	for _, v := range vt.Entries {
		fmt.Fprintf(w, "  [%2d] 0x%08X - %s\n", v.Index, v.Value, v.Name)
	}
}

// printFirstBlockCheck prints the stack pointer and reset handler held in the
// first block of a UF2 stream.
func printFirstBlockCheck(w io.Writer, r io.Reader) error {
	raw, err := firmware.NewReader(r).Next()
	if err != nil {
		return fmt.Errorf("failed to read first block: %w", err)
	}
	blk, err := uf2.Decode(raw)
	if err != nil {
		return err
	}
	vt, err := analysis.VectorsFromBinary(blk.Data, blk.TargetAddr, analysis.CortexM)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Vector table check:")
	if sp, ok := vt.StackPointer(); ok {
		fmt.Fprintf(w, "  Stack Pointer: 0x%08X\n", sp)
	}
	if reset, ok := vt.Reset(); ok {
		fmt.Fprintf(w, "  Reset Handler: 0x%08X\n", reset)
	}
	return nil
}
