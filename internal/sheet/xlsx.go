package sheet

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/gstr1/internal/model"
)

// ContentTypeXLSX is the MIME type of an xlsx workbook.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const defaultColWidth = 18

// XLSX reads and writes Office Open XML workbooks.
type XLSX struct{}

func (x *XLSX) Name() string        { return "xlsx" }
func (x *XLSX) Extension() string   { return "xlsx" }
func (x *XLSX) ContentType() string { return ContentTypeXLSX }

// Read loads every sheet of a workbook. Each sheet's first non-blank row
// is its header.
func (x *XLSX) Read(r io.Reader) (*model.Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w: %w", model.ErrUnreadableFile, err)
	}
	defer f.Close()

	wb := &model.Workbook{}
	for _, name := range f.GetSheetList() {
		grid, err := readGrid(f, name)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w: %w", name, model.ErrUnreadableFile, err)
		}
		if err := wb.Add(name, tableFromGrid(grid)); err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", name, err)
		}
	}
	return wb, nil
}

func readGrid(f *excelize.File, sheetName string) ([][]model.Value, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	dates, err := newDateStyles(f)
	if err != nil {
		return nil, err
	}

	grid := make([][]model.Value, len(rows))
	for rowIdx, row := range rows {
		cells := make([]model.Value, len(row))
		for colIdx, raw := range row {
			if raw == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(sheetName, axis)
			if err != nil {
				return nil, err
			}
			v := typedCell(typ, raw)
			if v.Kind == model.KindNumber {
				if v, err = dates.convert(sheetName, axis, v); err != nil {
					return nil, err
				}
			}
			cells[colIdx] = v
		}
		grid[rowIdx] = cells
	}
	return grid, nil
}

// typedCell keeps string cells as text even when they look numeric, so
// account codes like "0030" survive.
func typedCell(typ excelize.CellType, raw string) model.Value {
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return model.Text(raw)
	case excelize.CellTypeBool:
		if raw == "1" {
			return model.Text("TRUE")
		}
		return model.Text("FALSE")
	case excelize.CellTypeDate:
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return model.Date(t)
			}
		}
		return model.Text(raw)
	default:
		return model.ParseCell(raw)
	}
}

// isoLayouts are the forms an inline ISO 8601 date cell may take.
var isoLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// dateStyles turns numeric cells into dates when their style uses a date
// or time number format. Results are cached per style id.
type dateStyles struct {
	f        *excelize.File
	date1904 bool
	isDate   map[int]bool
}

func newDateStyles(f *excelize.File) (*dateStyles, error) {
	props, err := f.GetWorkbookProps()
	if err != nil {
		return nil, err
	}
	return &dateStyles{
		f:        f,
		date1904: props.Date1904 != nil && *props.Date1904,
		isDate:   make(map[int]bool),
	}, nil
}

func (d *dateStyles) convert(sheetName, axis string, v model.Value) (model.Value, error) {
	styleID, err := d.f.GetCellStyle(sheetName, axis)
	if err != nil {
		return v, err
	}
	isDate, ok := d.isDate[styleID]
	if !ok {
		style, err := d.f.GetStyle(styleID)
		if err != nil {
			return v, err
		}
		isDate = isDateFormat(style)
		d.isDate[styleID] = isDate
	}
	if !isDate {
		return v, nil
	}
	serial, _ := v.Number.Float64()
	t, err := excelize.ExcelDateToTime(serial, d.date1904)
	if err != nil {
		return v, nil
	}
	return model.Date(t.Round(time.Second)), nil
}

// Built-in number formats that render dates or times.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

func isDateFormat(style *excelize.Style) bool {
	if style == nil {
		return false
	}
	if style.CustomNumFmt == nil {
		return builtinDateFormats[style.NumFmt]
	}
	return customDateFormat(*style.CustomNumFmt)
}

// customDateFormat reports whether a format code has date or time tokens
// outside quoted literals, escapes and bracketed sections like [Red].
func customDateFormat(code string) bool {
	code = strings.ToLower(code)
	if code == "general" || code == "@" {
		return false
	}
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case inQuote:
			inQuote = c != '"'
		case inBracket:
			inBracket = c != ']'
		case c == '"':
			inQuote = true
		case c == '[':
			inBracket = true
		case c == '\\' || c == '_' || c == '*':
			i++
		case c == 'y' || c == 'm' || c == 'd' || c == 'h' || c == 's':
			return true
		}
	}
	return false
}

// Write serializes wb with a bold header row frozen at the top of each
// sheet.
func (x *XLSX) Write(w io.Writer, wb *model.Workbook) error {
	if wb.Len() == 0 {
		return fmt.Errorf("workbook has no sheets")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#D3D3D3"},
			Pattern: 1,
		},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	styles, err := newCellStyles(f, headerStyle)
	if err != nil {
		return err
	}

	defaultSheet := f.GetSheetName(0)
	for i, s := range wb.Sheets() {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, s.Name); err != nil {
				return fmt.Errorf("naming sheet %q: %w", s.Name, err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("creating sheet %q: %w", s.Name, err)
		}
		if err := writeSheet(f, s, styles); err != nil {
			return fmt.Errorf("writing sheet %q: %w", s.Name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// cellStyles holds the style ids a sheet is written with.
type cellStyles struct {
	header   int
	date     int
	dateTime int
}

func newCellStyles(f *excelize.File, header int) (cellStyles, error) {
	date, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		return cellStyles{}, fmt.Errorf("creating date style: %w", err)
	}
	dateTime, err := f.NewStyle(&excelize.Style{NumFmt: 22})
	if err != nil {
		return cellStyles{}, fmt.Errorf("creating date-time style: %w", err)
	}
	return cellStyles{header: header, date: date, dateTime: dateTime}, nil
}

func writeSheet(f *excelize.File, s model.Sheet, styles cellStyles) error {
	sw, err := f.NewStreamWriter(s.Name)
	if err != nil {
		return err
	}

	t := s.Table
	if len(t.Header) > 0 {
		if err := sw.SetColWidth(1, len(t.Header), defaultColWidth); err != nil {
			return err
		}
		if err := sw.SetPanes(&excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return err
		}

		header := make([]interface{}, len(t.Header))
		for i, name := range t.Header {
			header[i] = excelize.Cell{StyleID: styles.header, Value: name}
		}
		if err := sw.SetRow("A1", header); err != nil {
			return err
		}
	}

	for i := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cellValues(t.Values(i), styles)); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func cellValues(values []model.Value, styles cellStyles) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		switch v.Kind {
		case model.KindNumber:
			out[i] = numberCell(v.Number)
		case model.KindText:
			out[i] = v.Text
		case model.KindDate:
			style := styles.date
			if v.HasClock() {
				style = styles.dateTime
			}
			out[i] = excelize.Cell{StyleID: style, Value: v.Time}
		}
	}
	return out
}

// numberCell returns d as a float64 when that keeps every digit, and as
// its decimal text otherwise.
func numberCell(d decimal.Decimal) interface{} {
	f, _ := d.Float64()
	if decimal.NewFromFloat(f).Equal(d) {
		return f
	}
	return d.String()
}
