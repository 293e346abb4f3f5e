package firmware

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/moffa90/go-uf2/uf2"
)

// Reader reads fixed-size UF2 records from an underlying stream.
// It does not validate record contents; that is left to the decoder.
type Reader struct {
	r     io.Reader
	count int
}

// NewReader returns a Reader that pulls 512-byte records from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next returns the next raw record.
// It returns io.EOF when the stream ends on a record boundary and
// uf2.ErrTruncated when it ends in the middle of a record.
func (r *Reader) Next() ([]byte, error) {
	raw := make([]byte, uf2.BlockSize)

	n, err := io.ReadFull(r.r, raw)
	switch {
	case errors.Is(err, io.EOF):
		return nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return nil, fmt.Errorf("%w: stream ended after %d of %d bytes", uf2.ErrTruncated, n, uf2.BlockSize)
	case err != nil:
		return nil, fmt.Errorf("read block %d: %w", r.count, err)
	}

	r.count++
	return raw, nil
}

// Count returns the number of complete records read so far.
func (r *Reader) Count() int {
	return r.count
}

// Blocks returns the remaining records as a sequence.
// A read error is yielded once and ends the sequence.
func (r *Reader) Blocks() iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		for {
			raw, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(raw, err) || err != nil {
				return
			}
		}
	}
}
