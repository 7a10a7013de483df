package appconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/asset-tools/internal/appconfig"
)

type testConfig struct {
	Paths struct {
		OutputDir string `toml:"output_dir"`
	} `toml:"paths"`
	PDF struct {
		Sources []string `toml:"sources"`
		Zoom    float64  `toml:"zoom"`
	} `toml:"pdf"`
}

func TestLoad_DecodesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "project.toml")
	content := `
[paths]
output_dir = "/out"

[pdf]
sources = ["/a.pdf", "/b.pdf"]
zoom = 1.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	var cfg testConfig
	require.NoError(t, appconfig.Load(path, "", &cfg))
	assert.Equal(t, "/out", cfg.Paths.OutputDir)
	assert.Equal(t, []string{"/a.pdf", "/b.pdf"}, cfg.PDF.Sources)
	assert.InDelta(t, 1.5, cfg.PDF.Zoom, 1e-9)
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	t.Parallel()

	var cfg testConfig
	require.NoError(t, appconfig.Load(filepath.Join(t.TempDir(), "none.toml"), "", &cfg))
	assert.Empty(t, cfg.Paths.OutputDir)
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "project.toml")
	require.NoError(t, os.WriteFile(path, []byte("[paths\noutput_dir ="), 0o600))

	var cfg testConfig
	require.Error(t, appconfig.Load(path, "", &cfg))
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	log, err := appconfig.NewLogger(dir, "convert_pdfs")
	require.NoError(t, err)
	require.NoError(t, log.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	assert.Regexp(t, `log_\d{8}_\d{6}\.log`, names)
}

func TestNewRunID(t *testing.T) {
	t.Parallel()

	id := appconfig.NewRunID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, appconfig.NewRunID())
}
