package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/gstr1/internal/model"
)

// ContentTypeCSV is the MIME type of a CSV file.
const ContentTypeCSV = "text/csv"

// csvSheetName names the single sheet of a CSV workbook.
const csvSheetName = "Sheet1"

// CSV reads and writes single-sheet comma-separated files.
type CSV struct{}

func (c *CSV) Name() string        { return "csv" }
func (c *CSV) Extension() string   { return "csv" }
func (c *CSV) ContentType() string { return ContentTypeCSV }

// Read loads a CSV file as a one-sheet workbook. Numeric-looking fields
// become numbers.
func (c *CSV) Read(r io.Reader) (*model.Workbook, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w: %w", model.ErrUnreadableFile, err)
	}

	grid := make([][]model.Value, len(records))
	for i, rec := range records {
		row := make([]model.Value, len(rec))
		for j, field := range rec {
			if i == 0 {
				row[j] = model.Text(field)
				continue
			}
			row[j] = model.ParseCell(strings.TrimSpace(field))
			if row[j].Kind == model.KindText {
				row[j] = model.Text(field)
			}
		}
		grid[i] = row
	}

	return model.NewWorkbook(model.Sheet{Name: csvSheetName, Table: tableFromGrid(grid)})
}

// Write serializes a single-sheet workbook, header first.
func (c *CSV) Write(w io.Writer, wb *model.Workbook) error {
	if wb.Len() != 1 {
		return fmt.Errorf("CSV holds exactly one sheet, workbook has %d", wb.Len())
	}
	t := wb.First()

	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i := range t.Rows {
		values := t.Values(i)
		rec := make([]string, len(values))
		for j, v := range values {
			rec[j] = v.String()
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}
