package summary

import (
	"fmt"

	"github.com/cleared-dev/gstr1/internal/model"
)

// Layout names the columns of a rendered summary.
type Layout struct {
	KeyLabel string
	// SumLabels[s][c] heads source s, value column c.
	SumLabels [][]string
	// DiffLabels[c] heads difference column c.
	DiffLabels []string
}

// DefaultLayout labels sums "<source> <column>" and differences
// "<column> Difference".
func DefaultLayout(keyLabel string, sources []Source) Layout {
	l := Layout{KeyLabel: keyLabel, SumLabels: make([][]string, len(sources))}
	for s, src := range sources {
		for _, col := range src.ValueColumns {
			l.SumLabels[s] = append(l.SumLabels[s], fmt.Sprintf("%s %s", src.Name, col))
		}
	}
	if len(sources) == 2 {
		for _, col := range sources[0].ValueColumns {
			l.DiffLabels = append(l.DiffLabels, col+" Difference")
		}
	}
	return l
}

// ToTable renders records as a table: the key, every sum, then every
// difference.
func ToTable(records []model.SummaryRecord, layout Layout) *model.Table {
	header := []string{layout.KeyLabel}
	for _, labels := range layout.SumLabels {
		header = append(header, labels...)
	}
	header = append(header, layout.DiffLabels...)

	t := model.NewTable(header)
	for _, r := range records {
		values := []model.Value{model.Text(r.Key)}
		for s, labels := range layout.SumLabels {
			for c := range labels {
				values = append(values, model.Number(r.Sum(s, c)))
			}
		}
		for c := range layout.DiffLabels {
			if c < len(r.Diffs) {
				values = append(values, model.Number(r.Diffs[c]))
			} else {
				values = append(values, model.Blank())
			}
		}
		t.AppendValues(values...)
	}
	return t
}
