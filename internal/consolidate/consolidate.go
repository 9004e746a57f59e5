// Package consolidate concatenates tables that share a header.
package consolidate

import (
	"slices"

	"github.com/cleared-dev/gstr1/internal/model"
)

// Options adjusts consolidation.
type Options struct {
	// SkipLeading drops this many leading data rows of the second table,
	// for exports that repeat a caption or totals row under the header.
	SkipLeading int
}

// Consolidate returns a's rows followed by b's rows under a's header.
// The headers must match in names and order.
func Consolidate(a, b *model.Table) (*model.Table, error) {
	return ConsolidateWith(a, b, Options{})
}

// ConsolidateWith is Consolidate with options. Neither input is modified.
func ConsolidateWith(a, b *model.Table, opts Options) (*model.Table, error) {
	if !model.SameHeader(a.Header, b.Header) {
		return nil, &model.SchemaMismatchError{
			Left:  slices.Clone(a.Header),
			Right: slices.Clone(b.Header),
		}
	}

	tail := b.Rows
	if skip := min(max(opts.SkipLeading, 0), len(tail)); skip > 0 {
		tail = tail[skip:]
	}

	out := model.NewTable(a.Header)
	out.Rows = make([]model.Row, 0, len(a.Rows)+len(tail))
	out.Rows = append(out.Rows, a.Rows...)
	out.Rows = append(out.Rows, tail...)
	return out, nil
}
