package analysis

import (
	"github.com/moffa90/go-uf2/firmware"
	"github.com/moffa90/go-uf2/uf2"
)

// Report bundles the three structural reports of an image.
type Report struct {
	Layout   []Span
	Coverage []Finding

	// Vectors is nil when the image does not load at the entry address
	Vectors *VectorTable
}

// Clean reports whether the image has no gaps or overlaps.
func (r *Report) Clean() bool {
	return len(r.Coverage) == 0
}

// Analyze produces the layout, coverage and vector table reports.
// The vector table is interpreted only if the image loads at entry.
func Analyze(img *firmware.Image, entry uint32, names *VectorNames) (*Report, error) {
	if img == nil || len(img.Records) == 0 {
		return nil, uf2.ErrEmptyImage
	}

	layout, err := Layout(img)
	if err != nil {
		return nil, err
	}

	coverage, err := Coverage(img)
	if err != nil {
		return nil, err
	}

	vectors, err := Vectors(img, entry, names)
	if err != nil {
		return nil, err
	}

	return &Report{
		Layout:   layout,
		Coverage: coverage,
		Vectors:  vectors,
	}, nil
}
