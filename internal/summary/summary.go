// Package summary aggregates numeric columns across tables by a grouping
// key.
package summary

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/gstr1/internal/model"
)

// Source is one table to aggregate.
type Source struct {
	Name         string
	Table        *model.Table
	GroupColumn  string
	ValueColumns []string
}

// Build sums each source's value columns per distinct group key. Keys
// appear in first-occurrence order across sources taken in order; a key
// absent from a source sums to zero there. Cells that are not numeric
// contribute zero. With exactly two sources each record also carries
// Diffs[c] = Sums[0][c] - Sums[1][c], which requires both sources to
// have the same number of value columns.
func Build(sources []Source) ([]model.SummaryRecord, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources: %w", model.ErrEmptyInput)
	}

	total := 0
	for _, src := range sources {
		if src.Table == nil {
			return nil, fmt.Errorf("source %q has no table: %w", src.Name, model.ErrEmptyInput)
		}
		if len(src.ValueColumns) == 0 {
			return nil, fmt.Errorf("source %q has no value columns", src.Name)
		}
		if err := src.Table.RequireColumn(src.GroupColumn); err != nil {
			return nil, fmt.Errorf("source %q: %w", src.Name, err)
		}
		for _, col := range src.ValueColumns {
			if err := src.Table.RequireColumn(col); err != nil {
				return nil, fmt.Errorf("source %q: %w", src.Name, err)
			}
		}
		total += src.Table.Len()
	}
	if total == 0 {
		return nil, fmt.Errorf("all sources are empty: %w", model.ErrEmptyInput)
	}

	paired := len(sources) == 2
	if paired && len(sources[0].ValueColumns) != len(sources[1].ValueColumns) {
		return nil, fmt.Errorf("cannot pair %d value columns of %q with %d of %q",
			len(sources[0].ValueColumns), sources[0].Name,
			len(sources[1].ValueColumns), sources[1].Name)
	}

	var keys []string
	index := make(map[string]int)
	var records []model.SummaryRecord

	for s, src := range sources {
		for _, row := range src.Table.Rows {
			key := strings.TrimSpace(row.Get(src.GroupColumn).String())
			i, ok := index[key]
			if !ok {
				i = len(keys)
				index[key] = i
				keys = append(keys, key)
				records = append(records, newRecord(key, sources))
			}
			sums := records[i].Sums[s]
			for c, col := range src.ValueColumns {
				sums[c] = sums[c].Add(row.Get(col).DecimalOrZero())
			}
		}
	}

	if paired {
		for i := range records {
			a, b := records[i].Sums[0], records[i].Sums[1]
			diffs := make([]decimal.Decimal, len(a))
			for c := range a {
				diffs[c] = a[c].Sub(b[c])
			}
			records[i].Diffs = diffs
		}
	}
	return records, nil
}

func newRecord(key string, sources []Source) model.SummaryRecord {
	sums := make([][]decimal.Decimal, len(sources))
	for s, src := range sources {
		sums[s] = make([]decimal.Decimal, len(src.ValueColumns))
		for c := range sums[s] {
			sums[s][c] = decimal.Zero
		}
	}
	return model.SummaryRecord{Key: key, Sums: sums}
}
