// Package server serves the upload form and result downloads over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cleared-dev/gstr1/internal/gstr"
)

const shutdownTimeout = 10 * time.Second

// Server wires the GSTR service to gin routes.
type Server struct {
	svc    *gstr.Service
	log    *slog.Logger
	engine *gin.Engine
	now    func() time.Time
}

// New creates a Server with routes registered. A nil logger discards
// output.
func New(svc *gstr.Service, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	cfg := svc.Config().Server
	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadMB << 20
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.Recovery(), requestLogger(log), limitBody(cfg.MaxUploadMB<<20))
	if len(cfg.AllowOrigins) > 0 {
		r.Use(cors.New(corsConfig(cfg.AllowOrigins)))
	}

	s := &Server{svc: svc, log: log, engine: r, now: time.Now}
	s.registerRoutes(r)
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost},
		AllowHeaders:  []string{"Origin", "Content-Type", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
