package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/sfcdoc/pkg/entry"
	"github.com/gnana997/sfcdoc/pkg/indexer"
	"github.com/gnana997/sfcdoc/pkg/vuedoc"
)

func TestLoadProjectConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := loadProjectConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultProjectConfig(), cfg)
	assert.Equal(t, entry.AllKinds(), cfg.Parser.Features)
	assert.Equal(t, indexer.DefaultScanOptions().Include, cfg.Scan.Include)
}

func TestLoadProjectConfig_ExplicitMissing(t *testing.T) {
	_, err := loadProjectConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoadProjectConfig_File(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.MkdirAll(".sfcdoc", 0o755))
	require.NoError(t, os.WriteFile(defaultConfigPath, []byte(`
features: [prop, event]
default_visibility: protected
cache_size: -1
include: ["src/**/*.vue"]
workers: 3
debounce_ms: 50
log_level: debug
mcp_log: .sfcdoc/calls.jsonl
`), 0o644))

	cfg, err := loadProjectConfig("")
	require.NoError(t, err)
	assert.Equal(t, []entry.Kind{entry.KindProp, entry.KindEvent}, cfg.Parser.Features)
	assert.Equal(t, entry.VisibilityProtected, cfg.Parser.DefaultVisibility)
	assert.Equal(t, -1, cfg.Parser.CacheSize)
	assert.Equal(t, []string{"src/**/*.vue"}, cfg.Scan.Include)
	assert.Equal(t, indexer.DefaultScanOptions().Exclude, cfg.Scan.Exclude, "unset keys keep their defaults")
	assert.Equal(t, 3, cfg.Scan.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, ".sfcdoc/calls.jsonl", cfg.MCPLog)

	watch := cfg.watchOptions()
	assert.Equal(t, 50, watch.DebounceMs)
	assert.Equal(t, cfg.Scan.Include, watch.Include)
}

func TestLoadProjectConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "bad yaml", content: "features: [", want: "failed to parse"},
		{name: "unknown feature", content: "features: [props]", want: vuedoc.ErrInvalidOptions.Error()},
		{name: "unknown visibility", content: "default_visibility: internal", want: vuedoc.ErrInvalidOptions.Error()},
		{name: "bad pattern", content: `exclude: ["[x"]`, want: "invalid exclude pattern"},
		{name: "bad log level", content: "log_level: verbose", want: "invalid log level"},
		{name: "bad log format", content: "log_format: xml", want: "invalid log format"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))

			_, err := loadProjectConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestWriteProjectConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".sfcdoc", "config.yaml")

	written, err := writeProjectConfig(path, defaultProjectConfig())
	require.NoError(t, err)
	assert.True(t, written)

	cfg, err := loadProjectConfig(path)
	require.NoError(t, err)
	assert.Equal(t, defaultProjectConfig(), cfg)

	written, err = writeProjectConfig(path, defaultProjectConfig())
	require.NoError(t, err)
	assert.False(t, written, "existing config is kept")
}
