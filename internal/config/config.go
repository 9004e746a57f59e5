package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = "gstr.yaml"

// Config represents the top-level gstr.yaml configuration.
type Config struct {
	CompanyCode string            `yaml:"company_code"`
	Server      ServerConfig      `yaml:"server"`
	GL          GLConfig          `yaml:"gl"`
	TB          TBConfig          `yaml:"tb"`
	Consolidate ConsolidateConfig `yaml:"consolidate"`
	Summary     SummaryConfig     `yaml:"summary"`
	LogLevel    string            `yaml:"log_level"`
}

// ServerConfig controls the upload UI.
type ServerConfig struct {
	ListenAddr   string   `yaml:"listen_addr"`
	MaxUploadMB  int64    `yaml:"max_upload_mb"`
	AllowOrigins []string `yaml:"allow_origins,omitempty"`
}

// GLConfig locates GL dump columns and classifies rows.
type GLConfig struct {
	TextKeywords     []string `yaml:"text_keywords"`
	AccountKeywords  []string `yaml:"account_keywords"`
	ValueKeywords    []string `yaml:"value_keywords"`
	GSTAccounts      []string `yaml:"gst_accounts"`
	RevenuePrefix    string   `yaml:"revenue_prefix"`
	KeepUnclassified bool     `yaml:"keep_unclassified"`
}

// TBConfig locates trial balance columns.
type TBConfig struct {
	TextColumn       string   `yaml:"text_column"` // exact name tried before keywords
	TextKeywords     []string `yaml:"text_keywords"`
	DebitKeywords    []string `yaml:"debit_keywords"`
	CreditKeywords   []string `yaml:"credit_keywords"`
	DifferenceColumn string   `yaml:"difference_column"`
}

// ConsolidateConfig controls SD + SR consolidation.
type ConsolidateConfig struct {
	SkipLeadingRows int `yaml:"skip_leading_rows"`
}

// SummaryConfig labels the summary sheet.
type SummaryConfig struct {
	KeyLabel        string `yaml:"key_label"`
	GLLabel         string `yaml:"gl_label"`
	TBLabel         string `yaml:"tb_label"`
	DifferenceLabel string `yaml:"difference_label"`
}

// Load reads a gstr.yaml file from disk. Fields the file omits keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, returning defaults when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(""), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config matching SAP-style GL and TB exports.
func Default(companyCode string) *Config {
	return &Config{
		CompanyCode: companyCode,
		Server: ServerConfig{
			ListenAddr:  ":8080",
			MaxUploadMB: 32,
		},
		GL: GLConfig{
			TextKeywords:    []string{"g/l", "account", "long", "text"},
			AccountKeywords: []string{"g/l", "account"},
			ValueKeywords:   []string{"value"},
			GSTAccounts: []string{
				"Central GST Payable",
				"Integrated GST Payable",
				"State GST Payable",
			},
			RevenuePrefix: "3",
		},
		TB: TBConfig{
			TextColumn:       "G/L Acct Long Text",
			TextKeywords:     []string{"g/l", "acct", "long", "text"},
			DebitKeywords:    []string{"period", "d"},
			CreditKeywords:   []string{"period", "c"},
			DifferenceColumn: "Difference",
		},
		Summary: SummaryConfig{
			KeyLabel:        "GST Type",
			GLLabel:         "GST Payable as per GL",
			TBLabel:         "Difference as per TB",
			DifferenceLabel: "Net Difference",
		},
		LogLevel: "info",
	}
}

// Validate checks fields that would make every request fail.
func (c *Config) Validate() error {
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	if len(c.GL.GSTAccounts) == 0 {
		return fmt.Errorf("gl.gst_accounts must list at least one account")
	}
	if c.Consolidate.SkipLeadingRows < 0 {
		return fmt.Errorf("consolidate.skip_leading_rows must not be negative")
	}
	return c.Summary.validate()
}

// Labels name the summary columns in order.
func (s SummaryConfig) Labels() []string {
	return []string{s.KeyLabel, s.GLLabel, s.TBLabel, s.DifferenceLabel}
}

// validate rejects blank or repeated labels. Each label is a column header.
func (s SummaryConfig) validate() error {
	seen := make(map[string]bool, 4)
	for _, label := range s.Labels() {
		key := strings.TrimSpace(label)
		if key == "" {
			return fmt.Errorf("summary labels must not be blank")
		}
		if seen[key] {
			return fmt.Errorf("summary labels must be distinct, %q repeats", label)
		}
		seen[key] = true
	}
	return nil
}

// ApplyEnv loads .env files (missing files are ignored) and overrides
// fields from GSTR_* environment variables.
func (c *Config) ApplyEnv(envFiles ...string) error {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}

	if v, ok := os.LookupEnv("GSTR_COMPANY_CODE"); ok {
		c.CompanyCode = v
	}
	if v, ok := os.LookupEnv("GSTR_LISTEN_ADDR"); ok {
		c.Server.ListenAddr = v
	}
	if v, ok := os.LookupEnv("GSTR_MAX_UPLOAD_MB"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing GSTR_MAX_UPLOAD_MB %q: %w", v, err)
		}
		c.Server.MaxUploadMB = n
	}
	if v, ok := os.LookupEnv("GSTR_ALLOW_ORIGINS"); ok {
		c.Server.AllowOrigins = splitList(v)
	}
	if v, ok := os.LookupEnv("GSTR_GST_ACCOUNTS"); ok {
		c.GL.GSTAccounts = splitList(v)
	}
	if v, ok := os.LookupEnv("GSTR_REVENUE_PREFIX"); ok {
		c.GL.RevenuePrefix = v
	}
	if v, ok := os.LookupEnv("GSTR_KEEP_UNCLASSIFIED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parsing GSTR_KEEP_UNCLASSIFIED %q: %w", v, err)
		}
		c.GL.KeepUnclassified = b
	}
	if v, ok := os.LookupEnv("GSTR_LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	return c.Validate()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
