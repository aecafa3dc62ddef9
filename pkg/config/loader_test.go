package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/importsweep/pkg/config"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "sweep.yaml", `
scan:
  extensions: [".ts"]
  max_file_size: 256KiB
linter:
  timeout: 30s
  max_findings: 100
lexical:
  always: true
report:
  format: json
`)

	cfg, err := config.LoadConfig(path, "")
	require.NoError(t, err)

	assert.Equal(t, []string{".ts"}, cfg.Scan.Extensions)
	assert.Equal(t, 30*time.Second, cfg.Linter.Timeout)
	assert.Equal(t, 100, cfg.Linter.MaxFindings)
	assert.True(t, cfg.Lexical.Always)
	assert.Equal(t, "json", cfg.Report.Format)

	size, err := cfg.Scan.MaxFileSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(256*1024), size)

	// Unset keys keep their defaults.
	assert.Equal(t, config.DefaultToolCommand, cfg.Exports.Command)
	assert.True(t, cfg.Exports.Enabled)
}

func TestLoadConfig_SearchesRoot(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, ".importsweep.yaml", "report:\n  listing_limit: 3\n")

	cfg, err := config.LoadConfig("", root)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Report.ListingLimit)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.LoadConfig("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("IMPORTSWEEP_LEXICAL_ALWAYS", "true")
	t.Setenv("IMPORTSWEEP_LOGGING_LEVEL", "debug")

	cfg, err := config.LoadConfig("", t.TempDir())
	require.NoError(t, err)

	assert.True(t, cfg.Lexical.Always)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "bad.yaml", "scan:\n  workers: -2\n")

	_, err := config.LoadConfig(path, "")
	require.ErrorIs(t, err, config.ErrNegativeWorkers)
}

func TestLoadConfig_BrokenYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "broken.yaml", "scan: [unclosed\n")

	_, err := config.LoadConfig(path, "")
	require.Error(t, err)
}
