package firmware

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/moffa90/go-uf2/uf2"
)

// makeBinary returns n bytes of a recognisable pattern
func makeBinary(n int) []byte {
	bin := make([]byte, n)
	for i := range bin {
		bin[i] = byte(i*7 + 3)
	}
	return bin
}

func TestEncodeImage(t *testing.T) {
	tests := []struct {
		name       string
		size       int
		base       uint32
		chunkSize  int
		wantBlocks int
		wantErr    bool
		errMsg     string
	}{
		{
			name:       "600 bytes in 256-byte chunks",
			size:       600,
			base:       0x26000,
			chunkSize:  256,
			wantBlocks: 3,
		},
		{
			name:       "exact multiple",
			size:       512,
			base:       0x26000,
			chunkSize:  256,
			wantBlocks: 2,
		},
		{
			name:       "max chunk size",
			size:       1000,
			base:       0x10000000,
			chunkSize:  476,
			wantBlocks: 3,
		},
		{
			name:       "empty binary",
			size:       0,
			base:       0x26000,
			chunkSize:  256,
			wantBlocks: 0,
		},
		{
			name:      "chunk size too small",
			size:      100,
			chunkSize: 255,
			wantErr:   true,
			errMsg:    "invalid chunk size",
		},
		{
			name:      "chunk size too large",
			size:      100,
			chunkSize: 477,
			wantErr:   true,
			errMsg:    "invalid chunk size",
		},
		{
			name:      "address wraps",
			size:      0x200,
			base:      0xFFFFFF00,
			chunkSize: 256,
			wantErr:   true,
			errMsg:    "wraps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bin := makeBinary(tt.size)
			blocks, err := EncodeImage(bin, tt.base, tt.chunkSize, uf2.FamilyNRF52840)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errMsg)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("error = %v, want substring %q", err, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			count := 0
			for i, raw := range blocks {
				if i != count {
					t.Fatalf("block number %d yielded at position %d", i, count)
				}

				blk, err := uf2.Decode(raw)
				if err != nil {
					t.Fatalf("block %d: decode error: %v", i, err)
				}

				wantAddr := tt.base + uint32(i*tt.chunkSize)
				if blk.TargetAddr != wantAddr {
					t.Errorf("block %d: TargetAddr = 0x%08X, want 0x%08X", i, blk.TargetAddr, wantAddr)
				}
				if blk.BlockNo != uint32(i) {
					t.Errorf("block %d: BlockNo = %d", i, blk.BlockNo)
				}
				if blk.NumBlocks != uint32(tt.wantBlocks) {
					t.Errorf("block %d: NumBlocks = %d, want %d", i, blk.NumBlocks, tt.wantBlocks)
				}
				if blk.Flags != uf2.FlagFamilyIDPresent {
					t.Errorf("block %d: Flags = 0x%08X, want 0x%08X", i, blk.Flags, uf2.FlagFamilyIDPresent)
				}
				if blk.FamilyID != uf2.FamilyNRF52840 {
					t.Errorf("block %d: FamilyID = 0x%08X", i, blk.FamilyID)
				}

				start := i * tt.chunkSize
				end := min(start+tt.chunkSize, tt.size)
				if !bytes.Equal(blk.Data, bin[start:end]) {
					t.Errorf("block %d: payload mismatch", i)
				}
				count++
			}

			if count != tt.wantBlocks {
				t.Errorf("block count = %d, want %d", count, tt.wantBlocks)
			}
		})
	}
}

func TestEncodeImageRestartable(t *testing.T) {
	blocks, err := EncodeImage(makeBinary(1000), 0x26000, 256, uf2.FamilyNRF52840)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := Flatten(blocks)
	second := Flatten(blocks)

	if len(first) != 4*uf2.BlockSize {
		t.Fatalf("stream length = %d, want %d", len(first), 4*uf2.BlockSize)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("second pass produced different blocks")
	}
}

func TestEncodeImageEarlyBreak(t *testing.T) {
	blocks, err := EncodeImage(makeBinary(2000), 0, 256, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := 0
	for range blocks {
		seen++
		if seen == 2 {
			break
		}
	}
	if seen != 2 {
		t.Errorf("seen = %d, want 2", seen)
	}
}

func TestEncodeSegments(t *testing.T) {
	segs := []Segment{
		{Address: 0x1000, Data: makeBinary(300)},
		{Address: 0x8000, Data: makeBinary(100)},
	}

	blocks, err := EncodeSegments(segs, 256, uf2.FamilySAMD21)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantAddrs := []uint32{0x1000, 0x1100, 0x8000}
	wantSizes := []uint32{256, 44, 100}

	i := 0
	for n, raw := range blocks {
		blk, err := uf2.Decode(raw)
		if err != nil {
			t.Fatalf("block %d: %v", n, err)
		}
		if blk.BlockNo != uint32(i) || blk.NumBlocks != 3 {
			t.Errorf("block %d: BlockNo=%d NumBlocks=%d", i, blk.BlockNo, blk.NumBlocks)
		}
		if blk.TargetAddr != wantAddrs[i] {
			t.Errorf("block %d: TargetAddr = 0x%X, want 0x%X", i, blk.TargetAddr, wantAddrs[i])
		}
		if blk.PayloadSize != wantSizes[i] {
			t.Errorf("block %d: PayloadSize = %d, want %d", i, blk.PayloadSize, wantSizes[i])
		}
		i++
	}
	if i != 3 {
		t.Errorf("block count = %d, want 3", i)
	}
}

func TestEncodeSegmentsAddressWrap(t *testing.T) {
	segs := []Segment{
		{Address: 0x1000, Data: makeBinary(10)},
		{Address: 0xFFFFFFF0, Data: makeBinary(0x20)},
	}

	_, err := EncodeSegments(segs, 256, 0)
	if !errors.Is(err, uf2.ErrAddressWrap) {
		t.Fatalf("error = %v, want ErrAddressWrap", err)
	}
	if !strings.Contains(err.Error(), "segment 1") {
		t.Errorf("error should name the segment, got: %v", err)
	}
}

func BenchmarkEncodeImage(b *testing.B) {
	bin := makeBinary(64 * 1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		blocks, _ := EncodeImage(bin, 0x26000, 256, uf2.FamilyNRF52840)
		for range blocks {
		}
	}
}
