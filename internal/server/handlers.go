package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cleared-dev/gstr1/internal/buildinfo"
	"github.com/cleared-dev/gstr1/internal/gstr"
	"github.com/cleared-dev/gstr1/internal/model"
)

// Form field names.
const (
	fieldSD          = "sd"
	fieldSR          = "sr"
	fieldGL          = "gl"
	fieldTB          = "tb"
	fieldCompanyCode = "company_code"
)

type formData struct {
	Error       string
	CompanyCode string
	Version     string
	MaxUploadMB int64
	GSTAccounts []string
}

func (s *Server) index(c *gin.Context) {
	s.renderForm(c, http.StatusOK, "")
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) consolidate(c *gin.Context) {
	up, err := formUploads(c, fieldSD, fieldSR)
	if err != nil {
		s.fail(c, err)
		return
	}
	f, err := s.svc.Consolidate(c.Request.Context(), c.PostForm(fieldCompanyCode), up[0], up[1])
	if err != nil {
		s.fail(c, err)
		return
	}
	attach(c, f)
}

func (s *Server) filter(c *gin.Context) {
	up, err := formUploads(c, fieldGL)
	if err != nil {
		s.fail(c, err)
		return
	}
	f, err := s.svc.Filter(c.Request.Context(), c.PostForm(fieldCompanyCode), up[0])
	if err != nil {
		s.fail(c, err)
		return
	}
	attach(c, f)
}

func (s *Server) summarize(c *gin.Context) {
	up, err := formUploads(c, fieldGL, fieldTB)
	if err != nil {
		s.fail(c, err)
		return
	}
	f, err := s.svc.Summarize(c.Request.Context(), c.PostForm(fieldCompanyCode), up[0], up[1])
	if err != nil {
		s.fail(c, err)
		return
	}
	attach(c, f)
}

func (s *Server) process(c *gin.Context) {
	up, err := formUploads(c, fieldSD, fieldSR, fieldGL, fieldTB)
	if err != nil {
		s.fail(c, err)
		return
	}
	in := gstr.Inputs{
		CompanyCode: c.PostForm(fieldCompanyCode),
		SD:          up[0],
		SR:          up[1],
		GL:          up[2],
		TB:          up[3],
	}
	files, err := s.svc.Process(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	code, err := s.svc.CompanyCode(in.CompanyCode)
	if err != nil {
		s.fail(c, err)
		return
	}
	archive, err := gstr.Archive(gstr.ArchiveName(code), files, s.now())
	if err != nil {
		s.fail(c, err)
		return
	}
	attach(c, archive)
}

// formUploads reads the named file fields in order. An absent field
// yields an empty Upload; the service reports it as missing input.
func formUploads(c *gin.Context, fields ...string) ([]gstr.Upload, error) {
	out := make([]gstr.Upload, len(fields))
	for i, field := range fields {
		fh, err := c.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			out[i] = gstr.Upload{Name: field}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s upload: %w", field, err)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s upload: %w", field, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s upload: %w", field, err)
		}
		out[i] = gstr.Upload{Name: fh.Filename, Data: data}
	}
	return out, nil
}

func attach(c *gin.Context, f gstr.File) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": f.Name}))
	c.Data(http.StatusOK, f.ContentType, f.Data)
}

// fail renders err inline on the form, or as JSON when the client asks
// for it. Unexpected errors are logged and shown only by request id.
func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	id := requestID(c)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.log.ErrorContext(c.Request.Context(), "request failed", "request_id", id, "error", err)
		msg = "Something went wrong processing the files (reference " + id + ")."
	}

	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		c.JSON(status, gin.H{"error": msg, "request_id": id})
		return
	}
	s.renderForm(c, status, msg)
}

func (s *Server) renderForm(c *gin.Context, status int, msg string) {
	cfg := s.svc.Config()
	code := c.PostForm(fieldCompanyCode)
	if code == "" {
		code = cfg.CompanyCode
	}
	c.HTML(status, "index.html", formData{
		Error:       msg,
		CompanyCode: code,
		Version:     buildinfo.Version,
		MaxUploadMB: cfg.Server.MaxUploadMB,
		GSTAccounts: cfg.GL.GSTAccounts,
	})
}

// statusFor maps pipeline errors to HTTP statuses: bad input is 422,
// oversized bodies 413, anything else 500.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, model.ErrUnreadableFile),
		errors.Is(err, model.ErrSchemaMismatch),
		errors.Is(err, model.ErrColumnNotFound),
		errors.Is(err, model.ErrEmptyInput),
		errors.Is(err, gstr.ErrMissingInput),
		errors.Is(err, gstr.ErrInvalidCompanyCode):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
