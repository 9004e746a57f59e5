package model

import "github.com/shopspring/decimal"

// SummaryRecord is one group of a cross-table summary.
type SummaryRecord struct {
	Key string
	// Sums[s][c] is the total of value column c in source s for this key.
	Sums [][]decimal.Decimal
	// Diffs[c] is Sums[0][c] - Sums[1][c]; nil unless built from
	// exactly two sources.
	Diffs []decimal.Decimal
}

// Sum returns the total for source s, value column c.
func (r SummaryRecord) Sum(s, c int) decimal.Decimal {
	if s >= len(r.Sums) || c >= len(r.Sums[s]) {
		return decimal.Zero
	}
	return r.Sums[s][c]
}
