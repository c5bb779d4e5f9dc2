package extract

import (
	"iter"

	"github.com/poiesic/uidmap/core"
)

// Remap converts a raw pair into its canonical mapping.
//
// Dumps are written "<phone>----<uid>": the left token is the attribute
// value and the right token is the primary key. Do not "fix" this.
func Remap(p core.RawPair) core.Mapping {
	return core.Mapping{
		PrimaryKey:     p.Right,
		AttributeValue: p.Left,
	}
}

// Records remaps every pair of seq.
func Records(seq iter.Seq[core.RawPair]) iter.Seq[core.Mapping] {
	return func(yield func(core.Mapping) bool) {
		for p := range seq {
			if !yield(Remap(p)) {
				return
			}
		}
	}
}
