// Package glfilter splits a general-ledger table into derived sheets by
// column predicates.
package glfilter

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/gstr1/internal/model"
)

// Sheet names produced for a GSTR-1 workbook.
const (
	SheetGSTPayable   = "GST Payable"
	SheetRevenue      = "Revenue"
	SheetUnclassified = "Unclassified"
)

// Predicate tests one cell.
type Predicate func(model.Value) bool

// InSet matches cells whose trimmed text equals one of values.
func InSet(values ...string) Predicate {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.TrimSpace(v)] = true
	}
	return func(v model.Value) bool {
		return set[strings.TrimSpace(v.String())]
	}
}

// HasPrefix matches cells whose text form starts with prefix. Numeric
// account codes are compared by their digits.
func HasPrefix(prefix string) Predicate {
	return func(v model.Value) bool {
		return !v.IsBlank() && strings.HasPrefix(strings.TrimSpace(v.String()), prefix)
	}
}

// Rule routes rows whose Column satisfies Match into the sheet Name.
type Rule struct {
	Name   string
	Column string
	Match  Predicate
}

// Result holds one table per rule, in rule order, plus rows no rule
// matched.
type Result struct {
	Sheets    []model.Sheet
	Unmatched *model.Table
}

// Table returns the derived table for a rule name.
func (r *Result) Table(name string) *model.Table {
	for _, s := range r.Sheets {
		if s.Name == name {
			return s.Table
		}
	}
	return nil
}

// Workbook returns the derived sheets, plus the unmatched rows under
// SheetUnclassified when keepUnmatched is set.
func (r *Result) Workbook(keepUnmatched bool) (*model.Workbook, error) {
	wb, err := model.NewWorkbook(r.Sheets...)
	if err != nil {
		return nil, err
	}
	if keepUnmatched {
		if err := wb.Add(SheetUnclassified, r.Unmatched); err != nil {
			return nil, err
		}
	}
	return wb, nil
}

// Partition evaluates every rule against every row. A row lands in each
// table whose rule it satisfies, keeping its full column set and
// original order; rows that satisfy no rule go to Unmatched.
func Partition(t *model.Table, rules ...Rule) (*Result, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("partition needs at least one rule")
	}
	for _, rule := range rules {
		if err := t.RequireColumn(rule.Column); err != nil {
			return nil, err
		}
	}

	res := &Result{
		Sheets:    make([]model.Sheet, len(rules)),
		Unmatched: model.NewTable(t.Header),
	}
	for i, rule := range rules {
		res.Sheets[i] = model.Sheet{Name: rule.Name, Table: model.NewTable(t.Header)}
	}

	for _, row := range t.Rows {
		matched := false
		for i, rule := range rules {
			if rule.Match(row.Get(rule.Column)) {
				res.Sheets[i].Table.Rows = append(res.Sheets[i].Table.Rows, row)
				matched = true
			}
		}
		if !matched {
			res.Unmatched.Rows = append(res.Unmatched.Rows, row)
		}
	}
	return res, nil
}

// Split partitions t on a single column into the GST Payable and Revenue
// tables. Rows matching neither predicate are dropped.
func Split(t *model.Table, column string, gst, revenue Predicate) (gstTable, revenueTable *model.Table, err error) {
	res, err := Partition(t,
		Rule{Name: SheetGSTPayable, Column: column, Match: gst},
		Rule{Name: SheetRevenue, Column: column, Match: revenue},
	)
	if err != nil {
		return nil, nil, err
	}
	return res.Sheets[0].Table, res.Sheets[1].Table, nil
}
