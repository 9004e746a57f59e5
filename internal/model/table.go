package model

import (
	"slices"
	"strings"
)

// Row maps column name to cell value. A missing key reads as blank.
type Row map[string]Value

// Get returns the value in column, or blank.
func (r Row) Get(column string) Value {
	return r[column]
}

// Table is an ordered sequence of rows sharing the columns named by Header.
type Table struct {
	Header []string
	Rows   []Row
}

// NewTable creates an empty table with a copy of header.
func NewTable(header []string) *Table {
	return &Table{Header: slices.Clone(header)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of column in the header, or -1.
func (t *Table) ColumnIndex(column string) int {
	return slices.Index(t.Header, column)
}

// HasColumn reports whether column is in the header.
func (t *Table) HasColumn(column string) bool {
	return t.ColumnIndex(column) >= 0
}

// RequireColumn returns a ColumnNotFoundError when column is absent.
func (t *Table) RequireColumn(column string) error {
	if t.HasColumn(column) {
		return nil
	}
	return &ColumnNotFoundError{
		Label:     column,
		Available: slices.Clone(t.Header),
		Partial:   t.partialMatches([]string{column}),
	}
}

// Append adds a row, keeping only the header's columns.
func (t *Table) Append(r Row) {
	row := make(Row, len(t.Header))
	for _, col := range t.Header {
		if v, ok := r[col]; ok && !v.IsBlank() {
			row[col] = v
		}
	}
	t.Rows = append(t.Rows, row)
}

// AppendValues adds a row from values in header order. Extra values are
// ignored and missing ones are blank.
func (t *Table) AppendValues(values ...Value) {
	row := make(Row, len(t.Header))
	for i, col := range t.Header {
		if i < len(values) && !values[i].IsBlank() {
			row[col] = values[i]
		}
	}
	t.Rows = append(t.Rows, row)
}

// Values returns row i's cells in header order.
func (t *Table) Values(i int) []Value {
	out := make([]Value, len(t.Header))
	for j, col := range t.Header {
		out[j] = t.Rows[i].Get(col)
	}
	return out
}

// Select returns a new table with the same header holding the rows for
// which keep returns true, in their original order.
func (t *Table) Select(keep func(Row) bool) *Table {
	out := NewTable(t.Header)
	for _, r := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// WithColumn returns a new table with column computed for every row by
// fn. A new column is appended to the header; an existing one is
// overwritten in place. t is unchanged.
func (t *Table) WithColumn(column string, fn func(Row) Value) *Table {
	header := slices.Clone(t.Header)
	if !t.HasColumn(column) {
		header = append(header, column)
	}
	out := &Table{Header: header, Rows: make([]Row, 0, len(t.Rows))}
	for _, r := range t.Rows {
		row := make(Row, len(r)+1)
		for k, v := range r {
			row[k] = v
		}
		delete(row, column)
		if v := fn(r); !v.IsBlank() {
			row[column] = v
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// FindColumn returns the first column whose lower-cased name contains all
// keywords. label names the column in the error when nothing matches.
func (t *Table) FindColumn(label string, keywords ...string) (string, error) {
	for _, col := range t.Header {
		if containsAll(strings.ToLower(col), keywords) {
			return col, nil
		}
	}
	return "", &ColumnNotFoundError{
		Label:     label,
		Keywords:  slices.Clone(keywords),
		Available: slices.Clone(t.Header),
		Partial:   t.partialMatches(keywords),
	}
}

func (t *Table) partialMatches(keywords []string) []string {
	var out []string
	for _, col := range t.Header {
		l := strings.ToLower(col)
		for _, k := range keywords {
			if strings.Contains(l, strings.ToLower(k)) {
				out = append(out, col)
				break
			}
		}
	}
	return out
}

func containsAll(s string, keywords []string) bool {
	for _, k := range keywords {
		if !strings.Contains(s, strings.ToLower(k)) {
			return false
		}
	}
	return true
}

// SameHeader reports whether a and b have identical column names in the
// same order.
func SameHeader(a, b []string) bool {
	return slices.Equal(a, b)
}
