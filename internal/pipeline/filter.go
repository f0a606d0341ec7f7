// Package pipeline filters transaction collections and aggregates them into
// the totals and per-category sums the renderers consume.
//
// Everything here is a pure function of its arguments. Filtering is lazy:
// Apply returns an iter.Seq that can be ranged over any number of times.
package pipeline

import (
	"iter"
	"slices"

	"github.com/theirongolddev/tally/internal/model"
)

// Matches reports whether t, a record of kind k, passes spec.
func Matches(t model.Transaction, k model.Kind, spec model.FilterSpec) bool {
	if !spec.Type.Admits(k) {
		return false
	}
	if spec.Category != "" && t.Category != spec.Category {
		return false
	}
	if !spec.Month.IsZero() && !spec.Month.Contains(t.Date) {
		return false
	}
	return true
}

// Apply yields the records of txs, a collection of kind k, that pass spec,
// in stored order. A type filter that excludes k yields nothing.
func Apply(txs []model.Transaction, k model.Kind, spec model.FilterSpec) iter.Seq[model.Transaction] {
	return func(yield func(model.Transaction) bool) {
		if !spec.Type.Admits(k) {
			return
		}
		for _, t := range txs {
			if !Matches(t, k, spec) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// Collect materializes seq. It never returns nil so renderers can range and
// JSON-encode the result without special cases.
func Collect(seq iter.Seq[model.Transaction]) []model.Transaction {
	out := slices.Collect(seq)
	if out == nil {
		out = []model.Transaction{}
	}
	return out
}
