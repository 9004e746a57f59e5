package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("1000")
	cfg.Server.AllowOrigins = []string{"http://localhost:3000"}
	cfg.GL.KeepUnclassified = true
	cfg.Consolidate.SkipLeadingRows = 1

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.CompanyCode, got.CompanyCode)
	assert.Equal(t, cfg.Server, got.Server)
	assert.Equal(t, cfg.GL, got.GL)
	assert.Equal(t, cfg.TB, got.TB)
	assert.Equal(t, 1, got.Consolidate.SkipLeadingRows)
	assert.Equal(t, cfg.Summary, got.Summary)
}

func TestDefaults(t *testing.T) {
	cfg := Default("1000")

	assert.Equal(t, "1000", cfg.CompanyCode)
	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	assert.Equal(t, int64(32), cfg.Server.MaxUploadMB)
	assert.Empty(t, cfg.Server.AllowOrigins)
	assert.Equal(t, []string{"Central GST Payable", "Integrated GST Payable", "State GST Payable"}, cfg.GL.GSTAccounts)
	assert.Equal(t, "3", cfg.GL.RevenuePrefix)
	assert.False(t, cfg.GL.KeepUnclassified)
	assert.Equal(t, "G/L Acct Long Text", cfg.TB.TextColumn)
	assert.Equal(t, 0, cfg.Consolidate.SkipLeadingRows)
	assert.Equal(t, "Net Difference", cfg.Summary.DifferenceLabel)
	assert.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(""), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("company_code: \"2000\"\ngl:\n  revenue_prefix: \"4\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "2000", cfg.CompanyCode)
	assert.Equal(t, "4", cfg.GL.RevenuePrefix)
	assert.Len(t, cfg.GL.GSTAccounts, 3, "unset fields keep defaults")
	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("server:\n  max_upload_mb: 0\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("server: [\n"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestValidate_SummaryLabels(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*SummaryConfig)
		error string
	}{
		{"repeated", func(s *SummaryConfig) { s.TBLabel = s.GLLabel }, `"GST Payable as per GL" repeats`},
		{"repeated after trim", func(s *SummaryConfig) { s.DifferenceLabel = " GST Type " }, "repeats"},
		{"blank", func(s *SummaryConfig) { s.KeyLabel = "  " }, "must not be blank"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("1000")
			tt.edit(&cfg.Summary)
			assert.ErrorContains(t, cfg.Validate(), tt.error)
		})
	}

	require.NoError(t, Default("1000").Validate())
}

func TestLoad_RepeatedSummaryLabel(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	yml := "summary:\n  gl_label: Total\n  tb_label: Total\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "summary labels must be distinct")
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default("1000")
	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, `company_code: "1000"`)
	assert.Contains(t, contents, "max_upload_mb: 32")
	assert.Contains(t, contents, "- Central GST Payable")
	assert.Contains(t, contents, "keep_unclassified: false")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("GSTR_COMPANY_CODE", "3000")
	t.Setenv("GSTR_LISTEN_ADDR", "127.0.0.1:9090")
	t.Setenv("GSTR_MAX_UPLOAD_MB", "8")
	t.Setenv("GSTR_GST_ACCOUNTS", "Central GST Payable, State GST Payable,")
	t.Setenv("GSTR_KEEP_UNCLASSIFIED", "true")

	cfg := Default("")
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "3000", cfg.CompanyCode)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.ListenAddr)
	assert.Equal(t, int64(8), cfg.Server.MaxUploadMB)
	assert.Equal(t, []string{"Central GST Payable", "State GST Payable"}, cfg.GL.GSTAccounts)
	assert.True(t, cfg.GL.KeepUnclassified)
}

func TestApplyEnv_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GSTR_REVENUE_PREFIX=4\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("GSTR_REVENUE_PREFIX") })

	cfg := Default("")
	require.NoError(t, cfg.ApplyEnv(path, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, "4", cfg.GL.RevenuePrefix)
}

func TestApplyEnv_BadValues(t *testing.T) {
	t.Setenv("GSTR_MAX_UPLOAD_MB", "lots")
	assert.Error(t, Default("").ApplyEnv())

	t.Setenv("GSTR_MAX_UPLOAD_MB", "16")
	t.Setenv("GSTR_KEEP_UNCLASSIFIED", "maybe")
	assert.Error(t, Default("").ApplyEnv())
}
