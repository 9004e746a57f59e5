package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnreadableFile indicates the input bytes are not a valid spreadsheet.
	ErrUnreadableFile = errors.New("unreadable spreadsheet")
	// ErrSchemaMismatch indicates two tables do not share a header.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrColumnNotFound indicates a referenced column is absent from a table.
	ErrColumnNotFound = errors.New("column not found")
	// ErrEmptyInput indicates an aggregation was given zero rows.
	ErrEmptyInput = errors.New("empty input")
)

// SchemaMismatchError describes two headers that differ.
type SchemaMismatchError struct {
	Left  []string
	Right []string
}

func (e *SchemaMismatchError) Error() string {
	var b strings.Builder
	b.WriteString("schema mismatch: headers differ")
	if missing := difference(e.Left, e.Right); len(missing) > 0 {
		fmt.Fprintf(&b, "; only in first: %s", strings.Join(missing, ", "))
	}
	if extra := difference(e.Right, e.Left); len(extra) > 0 {
		fmt.Fprintf(&b, "; only in second: %s", strings.Join(extra, ", "))
	}
	if len(e.Left) == len(e.Right) && len(difference(e.Left, e.Right)) == 0 {
		b.WriteString("; same columns in a different order")
	}
	return b.String()
}

func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// ColumnNotFoundError describes a column lookup that failed. Keywords is set
// when the lookup was by keyword rather than by exact name.
type ColumnNotFoundError struct {
	Label     string
	Keywords  []string
	Available []string
	Partial   []string
}

func (e *ColumnNotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s column not found", e.Label)
	if len(e.Keywords) > 0 {
		fmt.Fprintf(&b, "; expected keywords: %s", strings.Join(e.Keywords, ", "))
	}
	fmt.Fprintf(&b, "; found columns: %s", strings.Join(e.Available, ", "))
	if len(e.Partial) > 0 {
		fmt.Fprintf(&b, "; possible matches: %s", strings.Join(e.Partial, ", "))
	}
	return b.String()
}

func (e *ColumnNotFoundError) Is(target error) bool {
	return target == ErrColumnNotFound
}

func difference(a, b []string) []string {
	seen := make(map[string]bool, len(b))
	for _, s := range b {
		seen[s] = true
	}
	var out []string
	for _, s := range a {
		if !seen[s] {
			out = append(out, s)
		}
	}
	return out
}
