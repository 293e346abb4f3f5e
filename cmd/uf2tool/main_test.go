package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/moffa90/go-uf2/analysis"
	"github.com/moffa90/go-uf2/converter"
	"github.com/moffa90/go-uf2/firmware"
)

func TestParseUint32(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"0x26000", 0x26000, false},
		{"0xADA52840", 0xADA52840, false},
		{"4096", 4096, false},
		{"0x100000000", 0, true},
		{"zzz", 0, true},
	}

	for _, tt := range tests {
		got, err := parseUint32(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseUint32(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("parseUint32(%q) = 0x%X, %v, want 0x%X", tt.in, got, err, tt.want)
		}
	}
}

func TestPrintInfo(t *testing.T) {
	bin := make([]byte, 600)
	copy(bin, []byte{0x04, 0x00, 0x00, 0x20, 0x01, 0x04, 0x02, 0x00})

	var stream bytes.Buffer
	if err := converter.New(&stream).Convert(context.Background(), bin, 0x26000); err != nil {
		t.Fatalf("convert: %v", err)
	}

	img, stats, err := firmware.DecodeReader(&stream)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	report, err := analysis.Analyze(img, analysis.DefaultEntryAddress, analysis.CortexM)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	var out bytes.Buffer
	printInfo(&out, "test.uf2", stats, report)
	text := out.String()

	wants := []string{
		"Family ID:       0xADA52840",
		"Blocks read:     3",
		"Block 2: 0x00026200 - 0x00026258 (88 bytes)",
		"[ 0] 0x20000004 - Stack Pointer",
		"[ 1] 0x00020401 - Reset",
		"contiguous",
	}
	for _, want := range wants {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestConvCommand(t *testing.T) {
	dir := t.TempDir()
	binPath := filepath.Join(dir, "fw.bin")
	uf2Path := filepath.Join(dir, "fw.uf2")

	bin := make([]byte, 1000)
	copy(bin, []byte{0x00, 0x00, 0x04, 0x20, 0x01, 0x01, 0x00, 0x10})
	if err := os.WriteFile(binPath, bin, 0o644); err != nil {
		t.Fatal(err)
	}

	verbose := false
	cmd := newConvCmd(&verbose)
	cmd.SetArgs([]string{binPath, uf2Path, "--base", "0x10000000", "--chunk", "476"})
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("conv: %v", err)
	}

	data, err := os.ReadFile(uf2Path)
	if err != nil {
		t.Fatal(err)
	}
	img, stats, err := firmware.DecodeReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.ObservedBlocks != 3 {
		t.Errorf("ObservedBlocks = %d, want 3", stats.ObservedBlocks)
	}
	if img.Records[0].TargetAddr != 0x10000000 {
		t.Errorf("TargetAddr = 0x%X", img.Records[0].TargetAddr)
	}

	for _, want := range []string{
		"Created " + uf2Path + ": 3 blocks, family 0xADA52840",
		"Stack Pointer: 0x20040000",
		"Reset Handler: 0x10000101",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

// writeUF2 encodes segs into a UF2 file under dir.
func writeUF2(t *testing.T, dir string, segs []firmware.Segment) string {
	t.Helper()
	blocks, err := firmware.EncodeSegments(segs, firmware.DefaultChunkSize, 0xADA52840)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "in.uf2")
	if err := os.WriteFile(path, firmware.Flatten(blocks), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUnpackCommand(t *testing.T) {
	head := bytes.Repeat([]byte{0x11}, 256)
	tail := []byte{0xAA, 0xBB}

	tests := []struct {
		name    string
		segs    []firmware.Segment
		output  string
		args    []string
		want    []byte
		wantOut string
	}{
		{
			name:    "contiguous bin",
			segs:    []firmware.Segment{{Address: 0x26000, Data: append(slices.Clone(head), tail...)}},
			output:  "out.bin",
			want:    append(slices.Clone(head), tail...),
			wantOut: "258 bytes from 0x00026000",
		},
		{
			name: "gapped bin",
			segs: []firmware.Segment{
				{Address: 0x26000, Data: head},
				{Address: 0x30000, Data: tail},
			},
			output: "out.bin",
			args:   []string{"--fill", "0x00"},
			want: func() []byte {
				b := make([]byte, 0xA002)
				copy(b, head)
				copy(b[0xA000:], tail)
				return b
			}(),
			wantOut: "Filled gap 0x00026100-0x00030000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			in := writeUF2(t, dir, tt.segs)
			outPath := filepath.Join(dir, tt.output)

			cmd := newUnpackCmd()
			cmd.SetArgs(append([]string{in, outPath}, tt.args...))
			var out bytes.Buffer
			cmd.SetOut(&out)

			if err := cmd.ExecuteContext(context.Background()); err != nil {
				t.Fatalf("unpack: %v", err)
			}
			got, err := os.ReadFile(outPath)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("output = %d bytes, want %d", len(got), len(tt.want))
			}
			if !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("output missing %q:\n%s", tt.wantOut, out.String())
			}
		})
	}

	t.Run("hex keeps addresses", func(t *testing.T) {
		dir := t.TempDir()
		in := writeUF2(t, dir, []firmware.Segment{
			{Address: 0x26000, Data: head},
			{Address: 0x30000, Data: tail},
		})
		outPath := filepath.Join(dir, "out.hex")

		cmd := newUnpackCmd()
		cmd.SetArgs([]string{in, outPath})
		cmd.SetOut(&bytes.Buffer{})
		if err := cmd.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("unpack: %v", err)
		}

		f, err := os.Open(outPath)
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()
		segs, err := firmware.LoadIntelHex(f)
		if err != nil {
			t.Fatalf("load hex: %v", err)
		}
		if len(segs) != 2 || segs[1].Address != 0x30000 || !bytes.Equal(segs[1].Data, tail) {
			t.Errorf("segments = %+v", segs)
		}
	})

	t.Run("overlap refused", func(t *testing.T) {
		dir := t.TempDir()
		in := writeUF2(t, dir, []firmware.Segment{
			{Address: 0x26000, Data: head},
			{Address: 0x26080, Data: tail},
		})
		outPath := filepath.Join(dir, "out.bin")

		cmd := newUnpackCmd()
		cmd.SetArgs([]string{in, outPath})
		cmd.SetOut(&bytes.Buffer{})
		err := cmd.ExecuteContext(context.Background())
		if err == nil || !strings.Contains(err.Error(), "overlap at 0x00026080") {
			t.Fatalf("error = %v, want overlap", err)
		}
		if _, err := os.Stat(outPath); !os.IsNotExist(err) {
			t.Errorf("output file written despite overlap")
		}
	})
}

func TestCheckCommand(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
		wants   []string
	}{
		{
			name: "reset handler inside",
			size: 0x500,
			wants: []string{
				"Binary size: 1280 bytes",
				"[ 0] 0x20040000 - Stack Pointer",
				"Reset vector points to: 0x00026401",
				"Binary offset for Reset_Handler: 0x400 (offset 1024 in binary)",
				"10 B5 00 AF",
			},
		},
		{
			name:    "reset handler past end",
			size:    0x200,
			wantErr: true,
			wants:   []string{"Reset vector points to: 0x00026401"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bin := make([]byte, tt.size)
			copy(bin, []byte{0x00, 0x00, 0x04, 0x20, 0x01, 0x64, 0x02, 0x00})
			if tt.size > 0x404 {
				copy(bin[0x400:], []byte{0x10, 0xB5, 0x00, 0xAF})
			}
			path := filepath.Join(t.TempDir(), "fw.bin")
			if err := os.WriteFile(path, bin, 0o644); err != nil {
				t.Fatal(err)
			}

			cmd := newCheckCmd()
			cmd.SetArgs([]string{path, "--base", "0x26000"})
			var out bytes.Buffer
			cmd.SetOut(&out)

			err := cmd.ExecuteContext(context.Background())
			if tt.wantErr {
				if !errors.Is(err, analysis.ErrOutsideImage) {
					t.Errorf("error = %v, want ErrOutsideImage", err)
				}
			} else if err != nil {
				t.Fatalf("check: %v", err)
			}
			for _, want := range tt.wants {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}
