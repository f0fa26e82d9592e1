package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gnana997/sfcdoc/pkg/indexer"
	"github.com/gnana997/sfcdoc/pkg/util"
	"github.com/gnana997/sfcdoc/pkg/vuedoc"
)

// defaultConfigPath is read when --config is not given.
var defaultConfigPath = filepath.Join(".sfcdoc", "config.yaml")

// ProjectConfig holds the contents of .sfcdoc/config.yaml.
type ProjectConfig struct {
	Parser vuedoc.Options      `yaml:",inline"`
	Scan   indexer.ScanOptions `yaml:",inline"`

	DebounceMs  int    `yaml:"debounce_ms"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	MCPLog      string `yaml:"mcp_log"`
	CatalogPath string `yaml:"catalog_path"`
}

func defaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Parser:      vuedoc.DefaultOptions(),
		Scan:        indexer.DefaultScanOptions(),
		DebounceMs:  indexer.DefaultWatchOptions().DebounceMs,
		LogLevel:    string(util.LevelInfo),
		LogFormat:   string(util.FormatText),
		CatalogPath: filepath.Join(".sfcdoc", "catalog.json"),
	}
}

// loadProjectConfig reads the config file at path over the defaults.
// A missing file is an error only when the path was given explicitly.
func loadProjectConfig(path string) (*ProjectConfig, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	cfg := defaultProjectConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *ProjectConfig) validate() error {
	if err := c.Parser.Validate(); err != nil {
		return err
	}
	if err := indexer.ValidatePatterns(c.Scan.Include, c.Scan.Exclude); err != nil {
		return err
	}
	if _, err := util.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := util.ParseLogFormat(c.LogFormat); err != nil {
		return err
	}
	return nil
}

func (c *ProjectConfig) watchOptions() indexer.WatchOptions {
	opts := indexer.DefaultWatchOptions()
	opts.DebounceMs = c.DebounceMs
	opts.Include = c.Scan.Include
	opts.Exclude = c.Scan.Exclude
	return opts
}

// writeProjectConfig writes cfg to path unless a file already exists there.
func writeProjectConfig(path string, cfg *ProjectConfig) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
