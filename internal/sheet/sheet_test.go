package sheet

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/gstr1/internal/model"
)

// buildXLSX writes rows to a single-sheet workbook with excelize directly.
func buildXLSX(t *testing.T, sheetName string, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheetName != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheetName))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheetName, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		raw  []string
		want []string
	}{
		{[]string{" G/L  Account ", "Amount"}, []string{"G/L Account", "Amount"}},
		{[]string{"A", "", "B"}, []string{"A", "Unnamed: 1", "B"}},
		{[]string{"Amt", "Amt", "Amt"}, []string{"Amt", "Amt.1", "Amt.2"}},
		{[]string{"Amt.1", "Amt", "Amt"}, []string{"Amt.1", "Amt", "Amt.2"}},
		{[]string{"G/L\tAcct\nLong Text"}, []string{"G/L Acct Long Text"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeHeader(tt.raw), "NormalizeHeader(%q)", tt.raw)
	}
}

func TestXLSXRead(t *testing.T) {
	data := buildXLSX(t, "GL", [][]interface{}{
		{"G/L Account", "G/L Account: Long Text", "Value"},
		{"0030", "Central GST Payable", 50},
		{3001000, "Sales Domestic", 125.75},
	})

	wb, err := ReadBytes("gl.xlsx", data)
	require.NoError(t, err)
	assert.Equal(t, []string{"GL"}, wb.Names())

	tbl := wb.First()
	assert.Equal(t, []string{"G/L Account", "G/L Account: Long Text", "Value"}, tbl.Header)
	require.Equal(t, 2, tbl.Len())

	acct := tbl.Rows[0].Get("G/L Account")
	assert.Equal(t, model.KindText, acct.Kind, "string cells stay text")
	assert.Equal(t, "0030", acct.String())

	assert.Equal(t, model.KindNumber, tbl.Rows[0].Get("Value").Kind)
	assert.Equal(t, "50", tbl.Rows[0].Get("Value").String())
	assert.Equal(t, "3001000", tbl.Rows[1].Get("G/L Account").String())
	assert.Equal(t, "125.75", tbl.Rows[1].Get("Value").String())
}

func TestXLSXRead_SkipsBlankRows(t *testing.T) {
	data := buildXLSX(t, "Sheet1", [][]interface{}{
		{},
		{"Type", "Amt"},
		{"SD", 100},
		{},
		{"SR", 200},
	})

	tbl, err := ReadTable("in.xlsx", data)
	require.NoError(t, err)
	assert.Equal(t, []string{"Type", "Amt"}, tbl.Header)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "SR", tbl.Rows[1].Get("Type").String())
}

func TestXLSXRead_Unreadable(t *testing.T) {
	_, err := ReadBytes("broken.xlsx", []byte("this is not a spreadsheet"))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrUnreadableFile)
}

func TestXLSXRoundTrip(t *testing.T) {
	gst := model.NewTable([]string{"Category", "Amt", "Note"})
	gst.AppendValues(model.Text("GST"), model.NumberFromInt(50), model.Blank())
	gst.AppendValues(model.Text("GST"), model.ParseCell("33.33"), model.Text("adj"))
	rev := model.NewTable([]string{"Category", "Amt"})
	rev.AppendValues(model.Text("Revenue"), model.NumberFromInt(30))

	wb, err := model.NewWorkbook(
		model.Sheet{Name: "GST Payable", Table: gst},
		model.Sheet{Name: "Revenue", Table: rev},
	)
	require.NoError(t, err)

	data, err := WriteBytes("xlsx", wb)
	require.NoError(t, err)

	got, err := ReadBytes("out.xlsx", data)
	require.NoError(t, err)
	assert.Equal(t, []string{"GST Payable", "Revenue"}, got.Names())

	g, ok := got.Get("GST Payable")
	require.True(t, ok)
	assert.Equal(t, gst.Header, g.Header)
	require.Equal(t, 2, g.Len())
	for i := range gst.Rows {
		want := gst.Values(i)
		have := g.Values(i)
		for j := range want {
			assert.True(t, want[j].Equal(have[j]), "row %d col %d: want %q got %q", i, j, want[j].String(), have[j].String())
		}
	}

	r, ok := got.Get("Revenue")
	require.True(t, ok)
	require.Equal(t, 1, r.Len())
	assert.Equal(t, "30", r.Rows[0].Get("Amt").String())
}

func TestXLSXRead_Dates(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Invoice Date", "Posted At", "Due", "Amount"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{
		time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 15, 13, 30, 0, 0, time.UTC),
		45762,
		45762,
	}))
	custom := "dd/mm/yyyy;@"
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &custom})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "C2", "C2", style))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	wb, err := ReadBytes("sd.xlsx", buf.Bytes())
	require.NoError(t, err)
	row := wb.First().Values(0)

	assert.Equal(t, model.KindDate, row[0].Kind)
	assert.Equal(t, "2025-04-15", row[0].String())
	assert.Equal(t, model.KindDate, row[1].Kind)
	assert.Equal(t, "2025-04-15 13:30:00", row[1].String())
	assert.Equal(t, model.KindDate, row[2].Kind, "custom date format")
	assert.Equal(t, "2025-04-15", row[2].String())
	assert.Equal(t, model.KindNumber, row[3].Kind, "unformatted serial stays a number")
	assert.Equal(t, "45762", row[3].String())
}

func TestXLSXRoundTrip_Dates(t *testing.T) {
	invoice := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	posted := time.Date(2025, 4, 15, 13, 30, 0, 0, time.UTC)
	tbl := model.NewTable([]string{"Invoice Date", "Posted At"})
	tbl.AppendValues(model.Date(invoice), model.Date(posted))
	wb, err := model.NewWorkbook(model.Sheet{Name: "Consolidated", Table: tbl})
	require.NoError(t, err)

	data, err := WriteBytes("xlsx", wb)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	shown, err := f.GetCellValue("Consolidated", "A2")
	require.NoError(t, err)
	assert.NotEqual(t, "45762", shown, "written as a formatted date, not a bare serial")
	styleID, err := f.GetCellStyle("Consolidated", "A2")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	assert.Equal(t, 14, style.NumFmt)

	back, err := ReadTable("out.xlsx", data)
	require.NoError(t, err)
	row := back.Values(0)
	assert.True(t, row[0].Equal(model.Date(invoice)), "got %s", row[0])
	assert.True(t, row[1].Equal(model.Date(posted)), "got %s", row[1])
}

func TestCustomDateFormat(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"dd/mm/yyyy", true},
		{"[$-409]d-mmm-yy;@", true},
		{"hh:mm:ss", true},
		{"#,##0.00", false},
		{`#,##0 "days"`, false},
		{"[Red]0.00", false},
		{"0.00E+00", false},
		{"General", false},
		{"@", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, customDateFormat(tt.code), "customDateFormat(%q)", tt.code)
	}
}

func TestXLSXWrite_ExactNumbers(t *testing.T) {
	long := decimal.RequireFromString("12345678901234567890.5")
	tbl := model.NewTable([]string{"Reference", "Amount"})
	tbl.AppendValues(model.Number(long), model.Number(decimal.RequireFromString("1234.56")))
	wb, err := model.NewWorkbook(model.Sheet{Name: "Sheet1", Table: tbl})
	require.NoError(t, err)

	data, err := WriteBytes("xlsx", wb)
	require.NoError(t, err)
	back, err := ReadTable("out.xlsx", data)
	require.NoError(t, err)
	row := back.Values(0)

	d, ok := row[0].Decimal()
	require.True(t, ok)
	assert.True(t, d.Equal(long), "every digit kept, got %s", d)
	assert.Equal(t, model.KindNumber, row[1].Kind)
	assert.Equal(t, "1234.56", row[1].String())
}

func TestXLSXWrite_HeaderOnly(t *testing.T) {
	wb, err := model.NewWorkbook(model.Sheet{Name: "Revenue", Table: model.NewTable([]string{"A", "B"})})
	require.NoError(t, err)

	data, err := WriteBytes("xlsx", wb)
	require.NoError(t, err)

	tbl, err := ReadTable("out.xlsx", data)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, tbl.Header)
	assert.Equal(t, 0, tbl.Len())
}

func TestXLSXWrite_FreezesHeader(t *testing.T) {
	tbl := model.NewTable([]string{"A"})
	tbl.AppendValues(model.Text("x"))
	wb, err := model.NewWorkbook(model.Sheet{Name: "Data", Table: tbl})
	require.NoError(t, err)

	data, err := WriteBytes("xlsx", wb)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	panes, err := f.GetPanes("Data")
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)
}

func TestXLSXWrite_Empty(t *testing.T) {
	_, err := WriteBytes("xlsx", &model.Workbook{})
	assert.Error(t, err)
}

func TestCSVRead(t *testing.T) {
	in := "Type , Amt\nSD,100\n,\nSR,\"1,200\"\n"
	wb, err := Read("sd.csv", strings.NewReader(in))
	require.NoError(t, err)

	tbl := wb.First()
	assert.Equal(t, []string{"Type", "Amt"}, tbl.Header)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, model.KindNumber, tbl.Rows[0].Get("Amt").Kind)
	assert.Equal(t, model.KindText, tbl.Rows[1].Get("Amt").Kind)
	assert.Equal(t, "1200", tbl.Rows[1].Get("Amt").DecimalOrZero().String())
}

func TestCSVRead_Unreadable(t *testing.T) {
	_, err := Read("bad.csv", strings.NewReader("a,\"b\nc"))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrUnreadableFile)
}

func TestCSVRoundTrip(t *testing.T) {
	tbl := model.NewTable([]string{"Type", "Amt"})
	tbl.AppendValues(model.Text(`ACME, "Invoice 1042"`), model.NumberFromInt(100))
	wb, err := model.NewWorkbook(model.Sheet{Name: "Consolidated", Table: tbl})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "csv", wb))
	assert.True(t, strings.HasPrefix(buf.String(), "Type,Amt\n"))

	got, err := Read("x.csv", &buf)
	require.NoError(t, err)
	require.Equal(t, 1, got.First().Len())
	assert.Equal(t, `ACME, "Invoice 1042"`, got.First().Rows[0].Get("Type").String())
}

func TestCSVWrite_MultiSheet(t *testing.T) {
	wb, err := model.NewWorkbook(
		model.Sheet{Name: "A", Table: model.NewTable(nil)},
		model.Sheet{Name: "B", Table: model.NewTable(nil)},
	)
	require.NoError(t, err)
	assert.Error(t, Write(&bytes.Buffer{}, "csv", wb))
}

func TestRegistry_ForFile(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, "csv", r.ForFile("SD.CSV").Name())
	assert.Equal(t, "xlsx", r.ForFile("sd.xlsx").Name())
	assert.Equal(t, "xlsx", r.ForFile("upload").Name(), "unknown extension falls back")
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry("xlsx")
	assert.Nil(t, r.Get("ods"))
	assert.Error(t, Write(&bytes.Buffer{}, "ods", &model.Workbook{}))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry("xlsx")
	r.Register(&XLSX{})
	assert.Panics(t, func() { r.Register(&XLSX{}) })
}

func TestReadTable_EmptyCSV(t *testing.T) {
	_, err := ReadTable("empty.csv", []byte(""))
	require.NoError(t, err, "an empty CSV is one sheet with no columns")
}
