package blockcache

import (
	"iter"

	"github.com/forestrie/go-skyindex/catalog"
)

// View is the resident prefix, in ascending magnitude, of one chain limited
// to a faint magnitude.
type View struct {
	parts    [][]catalog.Record
	faint    float64
	complete bool
}

// All yields copies of the viewed records, brightest first, stopping at the
// first record fainter than the view limit.
func (v View) All() iter.Seq[catalog.Record] {
	return func(yield func(catalog.Record) bool) {
		for _, part := range v.parts {
			for _, r := range part {
				if r.Magnitude() > v.faint {
					return
				}
				if !yield(r) {
					return
				}
			}
		}
	}
}

// Len counts the records All would yield.
func (v View) Len() int {
	n := 0
	for range v.All() {
		n++
	}
	return n
}

// Complete reports whether every record of the trixel at or brighter than the
// view limit is resident. It is false only when the budget prevented loading.
func (v View) Complete() bool { return v.complete }

func (v View) Faint() float64 { return v.faint }
