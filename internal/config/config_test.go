package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheBase_XDGSet(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/custom/cache")
	got := cacheBase()
	want := filepath.Join("/custom/cache", "ferrisdoc")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := GraphDir(); got != filepath.Join(want, "graphs") {
		t.Errorf("GraphDir = %q", got)
	}
}

func TestCacheBase_HomeDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	got := cacheBase()
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home dir")
	}
	want := filepath.Join(home, ".cache", "ferrisdoc")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCacheBase_TmpFallback(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", "")
	got := cacheBase()
	// Should use os.TempDir() when HOME is unset
	if !strings.Contains(got, "ferrisdoc") {
		t.Errorf("expected ferrisdoc in path, got %q", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "doc", cfg.OutputDir)
	assert.False(t, cfg.IncludePrivate)
	assert.Equal(t, "https://docs.rs", cfg.ExternalBaseURL)
	assert.Empty(t, cfg.Packages)
	assert.Equal(t, "", cfg.Highlight.Style)
	assert.True(t, cfg.Highlight.Classes)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ferrisdoc.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
output_dir = "site"
include_private = true
packages = ["alpha", "beta"]

[highlight]
style = "monokai"
classes = false
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "site", cfg.OutputDir)
	assert.True(t, cfg.IncludePrivate)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.Packages)
	assert.Equal(t, "monokai", cfg.Highlight.Style)
	assert.False(t, cfg.Highlight.Classes)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("FERRISDOC_HIGHLIGHT_STYLE", "github")
	t.Setenv("FERRISDOC_INCLUDE_PRIVATE", "true")
	t.Setenv("FERRISDOC_PACKAGES", "alpha,beta")
	t.Setenv("FERRISDOC_OUTPUT_DIR", "~/docs")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "github", cfg.Highlight.Style)
	assert.True(t, cfg.IncludePrivate)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.Packages)
	if home, err := os.UserHomeDir(); err == nil {
		assert.Equal(t, filepath.Join(home, "docs"), cfg.OutputDir)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
