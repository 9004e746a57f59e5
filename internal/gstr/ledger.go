package gstr

import (
	"fmt"
	"slices"

	"github.com/cleared-dev/gstr1/internal/glfilter"
	"github.com/cleared-dev/gstr1/internal/model"
	"github.com/cleared-dev/gstr1/internal/summary"
)

// glSplit is a GL dump split into GST payable and revenue rows, with the
// columns located on the way.
type glSplit struct {
	result     *glfilter.Result
	textCol    string
	accountCol string
	valueCol   string
}

func (g *glSplit) gst() *model.Table     { return g.result.Table(glfilter.SheetGSTPayable) }
func (g *glSplit) revenue() *model.Table { return g.result.Table(glfilter.SheetRevenue) }

// splitGL locates the long text, account and value columns, then routes
// GST account rows by long text and revenue rows by account prefix.
func (s *Service) splitGL(gl *model.Table) (*glSplit, error) {
	c := s.cfg.GL
	textCol, err := findColumn(gl, nil, "GL long text", c.TextKeywords)
	if err != nil {
		return nil, fmt.Errorf("GL file: %w", err)
	}
	// The long text header usually contains the account keywords too.
	accountCol, err := findColumn(gl, []string{textCol}, "GL account", c.AccountKeywords)
	if err != nil {
		return nil, fmt.Errorf("GL file: %w", err)
	}
	valueCol, err := findColumn(gl, nil, "GL value", c.ValueKeywords)
	if err != nil {
		return nil, fmt.Errorf("GL file: %w", err)
	}

	res, err := glfilter.Partition(gl,
		glfilter.Rule{Name: glfilter.SheetGSTPayable, Column: textCol, Match: glfilter.InSet(c.GSTAccounts...)},
		glfilter.Rule{Name: glfilter.SheetRevenue, Column: accountCol, Match: glfilter.HasPrefix(c.RevenuePrefix)},
	)
	if err != nil {
		return nil, fmt.Errorf("splitting GL: %w", err)
	}
	return &glSplit{result: res, textCol: textCol, accountCol: accountCol, valueCol: valueCol}, nil
}

// tbDifference keeps the TB rows for GST accounts and adds the
// difference column as credit minus debit. It returns the table and its
// long text column.
func (s *Service) tbDifference(tb *model.Table) (*model.Table, string, error) {
	c := s.cfg.TB
	textCol := c.TextColumn
	if textCol == "" || !tb.HasColumn(textCol) {
		var err error
		textCol, err = findColumn(tb, nil, "TB long text", c.TextKeywords)
		if err != nil {
			return nil, "", fmt.Errorf("TB file: %w", err)
		}
	}
	// Credit first: "period" alone contains the debit keyword "d".
	creditCol, err := findColumn(tb, []string{textCol}, "TB credit", c.CreditKeywords)
	if err != nil {
		return nil, "", fmt.Errorf("TB file: %w", err)
	}
	debitCol, err := findColumn(tb, []string{textCol, creditCol}, "TB debit", c.DebitKeywords)
	if err != nil {
		return nil, "", fmt.Errorf("TB file: %w", err)
	}

	isGST := glfilter.InSet(s.cfg.GL.GSTAccounts...)
	gst := tb.Select(func(r model.Row) bool { return isGST(r.Get(textCol)) })
	out := gst.WithColumn(c.DifferenceColumn, func(r model.Row) model.Value {
		return model.Number(r.Get(creditCol).DecimalOrZero().Sub(r.Get(debitCol).DecimalOrZero()))
	})
	return out, textCol, nil
}

// summarize builds the GST Type / GL / TB / Net Difference table.
func (s *Service) summarize(split *glSplit, tb *model.Table) (*model.Table, error) {
	tbGST, tbText, err := s.tbDifference(tb)
	if err != nil {
		return nil, err
	}

	sources := []summary.Source{
		{Name: "GL", Table: split.gst(), GroupColumn: split.textCol, ValueColumns: []string{split.valueCol}},
		{Name: "TB", Table: tbGST, GroupColumn: tbText, ValueColumns: []string{s.cfg.TB.DifferenceColumn}},
	}
	records, err := summary.Build(sources)
	if err != nil {
		return nil, fmt.Errorf("building summary: %w", err)
	}

	labels := s.cfg.Summary
	return summary.ToTable(records, summary.Layout{
		KeyLabel:   labels.KeyLabel,
		SumLabels:  [][]string{{labels.GLLabel}, {labels.TBLabel}},
		DiffLabels: []string{labels.DifferenceLabel},
	}), nil
}

// findColumn is Table.FindColumn over the columns not in skip.
func findColumn(t *model.Table, skip []string, label string, keywords []string) (string, error) {
	if len(skip) == 0 {
		return t.FindColumn(label, keywords...)
	}
	rest := model.NewTable(slices.DeleteFunc(slices.Clone(t.Header), func(col string) bool {
		return slices.Contains(skip, col)
	}))
	return rest.FindColumn(label, keywords...)
}
