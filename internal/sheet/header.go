package sheet

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/gstr1/internal/model"
)

// NormalizeHeader trims each name and collapses inner whitespace. Blank
// names become "Unnamed: N" (0-based column) and repeats get ".1", ".2"
// suffixes so every column name is unique.
func NormalizeHeader(raw []string) []string {
	out := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	for i, name := range raw {
		base := strings.Join(strings.Fields(name), " ")
		if base == "" {
			base = fmt.Sprintf("Unnamed: %d", i)
		}
		name = base
		for n := 1; used[name]; n++ {
			name = fmt.Sprintf("%s.%d", base, n)
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// tableFromGrid turns rows of cells into a Table. The first row with any
// data is the header; fully blank rows are skipped.
func tableFromGrid(grid [][]model.Value) *model.Table {
	start := 0
	for start < len(grid) && blankRow(grid[start]) {
		start++
	}
	if start == len(grid) {
		return model.NewTable(nil)
	}

	width := 0
	for _, row := range grid[start:] {
		width = max(width, len(row))
	}

	raw := make([]string, width)
	for i, v := range grid[start] {
		raw[i] = v.String()
	}
	t := model.NewTable(NormalizeHeader(raw))

	for _, row := range grid[start+1:] {
		if blankRow(row) {
			continue
		}
		t.AppendValues(row...)
	}
	return t
}

func blankRow(row []model.Value) bool {
	for _, v := range row {
		if !v.IsBlank() {
			return false
		}
	}
	return true
}
