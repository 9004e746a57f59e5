package model

import (
	"fmt"
	"strings"
)

// Sheet is a named table within a workbook.
type Sheet struct {
	Name  string
	Table *Table
}

// Workbook is an ordered set of uniquely named sheets. Names compare
// case-insensitively, as spreadsheet applications do.
type Workbook struct {
	sheets []Sheet
}

// NewWorkbook creates a workbook from sheets, failing on duplicate names.
func NewWorkbook(sheets ...Sheet) (*Workbook, error) {
	wb := &Workbook{}
	for _, s := range sheets {
		if err := wb.Add(s.Name, s.Table); err != nil {
			return nil, err
		}
	}
	return wb, nil
}

// Add appends a sheet. The name must be non-empty and unique.
func (wb *Workbook) Add(name string, t *Table) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("sheet name must not be empty")
	}
	if t == nil {
		return fmt.Errorf("sheet %q has no table", name)
	}
	if _, ok := wb.Get(name); ok {
		return fmt.Errorf("duplicate sheet name %q", name)
	}
	wb.sheets = append(wb.sheets, Sheet{Name: name, Table: t})
	return nil
}

// Get returns the table for a sheet name.
func (wb *Workbook) Get(name string) (*Table, bool) {
	for _, s := range wb.sheets {
		if strings.EqualFold(s.Name, name) {
			return s.Table, true
		}
	}
	return nil, false
}

// First returns the first sheet's table, or nil for an empty workbook.
func (wb *Workbook) First() *Table {
	if len(wb.sheets) == 0 {
		return nil
	}
	return wb.sheets[0].Table
}

// Names returns sheet names in order.
func (wb *Workbook) Names() []string {
	names := make([]string, len(wb.sheets))
	for i, s := range wb.sheets {
		names[i] = s.Name
	}
	return names
}

// Sheets returns the sheets in order.
func (wb *Workbook) Sheets() []Sheet {
	return wb.sheets
}

// Len returns the number of sheets.
func (wb *Workbook) Len() int {
	return len(wb.sheets)
}
