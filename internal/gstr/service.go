// Package gstr runs the GSTR-1 workbook pipeline: SD + SR consolidation,
// GL dump split, and the GL versus trial balance summary.
package gstr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/cleared-dev/gstr1/internal/config"
	"github.com/cleared-dev/gstr1/internal/consolidate"
	"github.com/cleared-dev/gstr1/internal/model"
	"github.com/cleared-dev/gstr1/internal/sheet"
)

// DefaultCompanyCode prefixes output names when no company code is set.
const DefaultCompanyCode = "GSTR"

// Output name suffixes.
const (
	KindConsolidated = "SD_SR_Consolidated"
	KindWorkbook     = "GSTR-1_Workbook"
	KindSummary      = "Summary"
)

const (
	consolidatedSheet = "Consolidated"
	summarySheet      = "Summary"
)

var (
	// ErrMissingInput is returned when a required upload or field is absent.
	ErrMissingInput = errors.New("missing input")
	// ErrInvalidCompanyCode is returned for codes unusable in a file name.
	ErrInvalidCompanyCode = errors.New("invalid company code")
)

var companyCodeRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Upload is one user-supplied file.
type Upload struct {
	Name string
	Data []byte
}

// Empty reports whether nothing was uploaded.
func (u Upload) Empty() bool {
	return len(u.Data) == 0
}

// File is one generated result.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Inputs holds everything Process needs.
type Inputs struct {
	CompanyCode string
	SD          Upload
	SR          Upload
	GL          Upload
	TB          Upload
}

// Service builds result workbooks from uploads. It holds no per-request
// state and is safe for concurrent use.
type Service struct {
	cfg  *config.Config
	log  *slog.Logger
	read func(ctx context.Context, label string, u Upload) (*model.Table, error)
}

// NewService creates a Service. A nil logger discards output.
func NewService(cfg *config.Config, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{cfg: cfg, log: log, read: readUpload}
}

// Config returns the service configuration.
func (s *Service) Config() *config.Config {
	return s.cfg
}

// FileName returns "<code>_<kind>.xlsx".
func FileName(code, kind string) string {
	return fmt.Sprintf("%s_%s.xlsx", code, kind)
}

// CompanyCode picks the code used in output names: override, then the
// configured code, then DefaultCompanyCode.
func (s *Service) CompanyCode(override string) (string, error) {
	code := strings.TrimSpace(override)
	if code == "" {
		code = strings.TrimSpace(s.cfg.CompanyCode)
	}
	if code == "" {
		return DefaultCompanyCode, nil
	}
	if !companyCodeRe.MatchString(code) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCompanyCode, code)
	}
	return code, nil
}

// Consolidate appends the SR rows to the SD rows.
func (s *Service) Consolidate(ctx context.Context, code string, sd, sr Upload) (File, error) {
	code, err := s.CompanyCode(code)
	if err != nil {
		return File{}, err
	}
	if err := requireUploads(map[string]Upload{"SD": sd, "SR": sr}); err != nil {
		return File{}, err
	}
	return s.consolidate(ctx, code, sd, sr)
}

// Filter splits the GL dump into the GST Payable and Revenue sheets.
func (s *Service) Filter(ctx context.Context, code string, gl Upload) (File, error) {
	code, err := s.CompanyCode(code)
	if err != nil {
		return File{}, err
	}
	if err := requireUploads(map[string]Upload{"GL": gl}); err != nil {
		return File{}, err
	}

	split, err := s.readGL(ctx, gl)
	if err != nil {
		return File{}, err
	}
	return s.filter(ctx, code, split)
}

// Summarize compares GST payable per the GL with the TB difference.
func (s *Service) Summarize(ctx context.Context, code string, gl, tb Upload) (File, error) {
	code, err := s.CompanyCode(code)
	if err != nil {
		return File{}, err
	}
	if err := requireUploads(map[string]Upload{"GL": gl, "TB": tb}); err != nil {
		return File{}, err
	}

	split, err := s.readGL(ctx, gl)
	if err != nil {
		return File{}, err
	}
	return s.summarizeTB(ctx, code, split, tb)
}

// Process runs all three actions. The company code and all four files are
// required and checked before anything is read. Each upload is read once;
// the GL split feeds both the workbook and the summary.
func (s *Service) Process(ctx context.Context, in Inputs) ([]File, error) {
	if strings.TrimSpace(in.CompanyCode) == "" {
		return nil, fmt.Errorf("%w: company code", ErrMissingInput)
	}
	code, err := s.CompanyCode(in.CompanyCode)
	if err != nil {
		return nil, err
	}
	if err := requireUploads(map[string]Upload{"SD": in.SD, "SR": in.SR, "GL": in.GL, "TB": in.TB}); err != nil {
		return nil, err
	}

	consolidated, err := s.consolidate(ctx, code, in.SD, in.SR)
	if err != nil {
		return nil, err
	}
	split, err := s.readGL(ctx, in.GL)
	if err != nil {
		return nil, err
	}
	workbook, err := s.filter(ctx, code, split)
	if err != nil {
		return nil, err
	}
	summaryFile, err := s.summarizeTB(ctx, code, split, in.TB)
	if err != nil {
		return nil, err
	}
	return []File{consolidated, workbook, summaryFile}, nil
}

func (s *Service) consolidate(ctx context.Context, code string, sd, sr Upload) (File, error) {
	sdTable, err := s.read(ctx, "SD", sd)
	if err != nil {
		return File{}, err
	}
	srTable, err := s.read(ctx, "SR", sr)
	if err != nil {
		return File{}, err
	}

	out, err := consolidate.ConsolidateWith(sdTable, srTable, consolidate.Options{
		SkipLeading: s.cfg.Consolidate.SkipLeadingRows,
	})
	if err != nil {
		return File{}, fmt.Errorf("consolidating SD and SR: %w", err)
	}
	wb, err := model.NewWorkbook(model.Sheet{Name: consolidatedSheet, Table: out})
	if err != nil {
		return File{}, err
	}

	s.log.InfoContext(ctx, "consolidated",
		"company", code, "sd_rows", sdTable.Len(), "sr_rows", srTable.Len(), "rows", out.Len())
	return s.render(ctx, FileName(code, KindConsolidated), wb)
}

func (s *Service) readGL(ctx context.Context, gl Upload) (*glSplit, error) {
	glTable, err := s.read(ctx, "GL", gl)
	if err != nil {
		return nil, err
	}
	return s.splitGL(glTable)
}

func (s *Service) filter(ctx context.Context, code string, split *glSplit) (File, error) {
	wb, err := split.result.Workbook(s.cfg.GL.KeepUnclassified)
	if err != nil {
		return File{}, err
	}

	s.log.InfoContext(ctx, "filtered GL",
		"company", code,
		"gst_payable", split.gst().Len(),
		"revenue", split.revenue().Len(),
		"unclassified", split.result.Unmatched.Len())
	return s.render(ctx, FileName(code, KindWorkbook), wb)
}

func (s *Service) summarizeTB(ctx context.Context, code string, split *glSplit, tb Upload) (File, error) {
	tbTable, err := s.read(ctx, "TB", tb)
	if err != nil {
		return File{}, err
	}
	summaryTable, err := s.summarize(split, tbTable)
	if err != nil {
		return File{}, err
	}
	wb, err := model.NewWorkbook(model.Sheet{Name: summarySheet, Table: summaryTable})
	if err != nil {
		return File{}, err
	}

	s.log.InfoContext(ctx, "summarized", "company", code, "groups", summaryTable.Len())
	return s.render(ctx, FileName(code, KindSummary), wb)
}

func (s *Service) render(ctx context.Context, name string, wb *model.Workbook) (File, error) {
	if err := ctx.Err(); err != nil {
		return File{}, err
	}
	data, err := sheet.WriteBytes("xlsx", wb)
	if err != nil {
		return File{}, fmt.Errorf("writing %s: %w", name, err)
	}
	return File{Name: name, ContentType: sheet.ContentTypeXLSX, Data: data}, nil
}

func readUpload(ctx context.Context, label string, u Upload) (*model.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := sheet.ReadTable(u.Name, u.Data)
	if err != nil {
		return nil, fmt.Errorf("reading %s file %q: %w", label, u.Name, err)
	}
	return t, nil
}

// requireUploads reports every missing upload at once, in a stable order.
func requireUploads(uploads map[string]Upload) error {
	var missing []string
	for _, label := range []string{"SD", "SR", "GL", "TB"} {
		if u, ok := uploads[label]; ok && u.Empty() {
			missing = append(missing, label)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s file", ErrMissingInput, strings.Join(missing, ", "))
	}
	return nil
}
