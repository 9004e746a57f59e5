package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/gstr1/internal/buildinfo"
	"github.com/cleared-dev/gstr1/internal/config"
	"github.com/cleared-dev/gstr1/internal/gstr"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	envFile    string
	logLevel   string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "gstr1",
		Short:   "GSTR-1 Excel processor",
		Long:    "Consolidates SD and SR sales files, splits GL dumps into GST Payable and Revenue sheets, and summarizes GST payable against the trial balance.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", config.FileName, "path to config file")
	pf.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before GSTR_* overrides")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (default from config)")

	rootCmd.AddCommand(
		newInitCommand(),
		newServeCommand(opts),
		newConsolidateCommand(opts),
		newFilterCommand(opts),
		newSummarizeCommand(opts),
		newProcessCommand(opts),
	)

	return rootCmd
}

// load reads the config file (defaults when absent), applies the
// environment, and builds the logger and service.
func (o *globalOptions) load(cmd *cobra.Command) (*config.Config, *gstr.Service, *slog.Logger, error) {
	cfg, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := cfg.ApplyEnv(o.envFile); err != nil {
		return nil, nil, nil, fmt.Errorf("applying environment: %w", err)
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Debug("config loaded", "path", o.configPath, "company", cfg.CompanyCode)
	return cfg, gstr.NewService(cfg, logger), logger, nil
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if level != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			return nil, fmt.Errorf("parsing log level %q: %w", level, err)
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func readUpload(path string) (gstr.Upload, error) {
	if path == "" {
		return gstr.Upload{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return gstr.Upload{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return gstr.Upload{Name: filepath.Base(path), Data: data}, nil
}

func writeOutputs(cmd *cobra.Command, dir string, files ...gstr.File) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for _, f := range files {
		path := filepath.Join(dir, f.Name)
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", f.Name, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	}
	return nil
}
