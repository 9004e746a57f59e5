// Package sheet translates between spreadsheet files and model workbooks.
package sheet

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/gstr1/internal/model"
)

// Format reads and writes one spreadsheet file format.
type Format interface {
	Name() string
	Extension() string
	ContentType() string
	Read(r io.Reader) (*model.Workbook, error)
	Write(w io.Writer, wb *model.Workbook) error
}

// Registry holds formats by name.
type Registry struct {
	formats  map[string]Format
	fallback string
}

// NewRegistry creates an empty registry. fallback names the format used
// for file names with an unknown extension.
func NewRegistry(fallback string) *Registry {
	return &Registry{formats: make(map[string]Format), fallback: strings.ToLower(fallback)}
}

// Register adds a format. Panics on duplicate name.
func (r *Registry) Register(f Format) {
	key := strings.ToLower(f.Name())
	if _, ok := r.formats[key]; ok {
		panic("duplicate sheet format: " + key)
	}
	r.formats[key] = f
}

// Get returns the format registered under name, or nil.
func (r *Registry) Get(name string) Format {
	return r.formats[strings.ToLower(name)]
}

// ForFile picks a format from a file name's extension, falling back to
// the registry default.
func (r *Registry) ForFile(fileName string) Format {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	for _, f := range r.formats {
		if f.Extension() == ext {
			return f
		}
	}
	return r.formats[r.fallback]
}

// DefaultRegistry returns a registry with xlsx and csv, defaulting to xlsx.
func DefaultRegistry() *Registry {
	r := NewRegistry("xlsx")
	r.Register(&XLSX{})
	r.Register(&CSV{})
	return r
}

var defaultRegistry = DefaultRegistry()

// Read loads a workbook, choosing the format from fileName.
func Read(fileName string, r io.Reader) (*model.Workbook, error) {
	return defaultRegistry.ForFile(fileName).Read(r)
}

// ReadBytes is Read over an in-memory upload.
func ReadBytes(fileName string, data []byte) (*model.Workbook, error) {
	return Read(fileName, bytes.NewReader(data))
}

// ReadTable loads the first sheet of a file. A workbook without sheets is
// unreadable.
func ReadTable(fileName string, data []byte) (*model.Table, error) {
	wb, err := ReadBytes(fileName, data)
	if err != nil {
		return nil, err
	}
	t := wb.First()
	if t == nil {
		return nil, fmt.Errorf("%s has no sheets: %w", fileName, model.ErrUnreadableFile)
	}
	return t, nil
}

// Write serializes wb in the named format.
func Write(w io.Writer, format string, wb *model.Workbook) error {
	f := defaultRegistry.Get(format)
	if f == nil {
		return fmt.Errorf("unknown sheet format %q", format)
	}
	return f.Write(w, wb)
}

// WriteBytes serializes wb in the named format to a byte slice.
func WriteBytes(format string, wb *model.Workbook) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, format, wb); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
