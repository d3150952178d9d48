package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"cliscope/internal/domain"
	"cliscope/internal/pkg/filesystem"
	"cliscope/internal/ports"
)

// FileLoader loads YAML configuration from ~/.cliscope/config.yaml
// (overridable via CLISCOPE_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := defaultConfig()
			if err := writeDefault(path, cfg); err != nil {
				return domain.Config{}, err
			}
			return cfg, nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}

	return hydrateDefaults(cfg), nil
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv("CLISCOPE_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), ".cliscope", "config.yaml")
}

func writeDefault(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

func defaultConfig() domain.Config {
	home := filesystem.UserHomeDir()
	return domain.Config{
		ConfigFormatVersion: "1",
		Probe: domain.ProbeSettings{
			TimeoutSeconds:     3,
			HelpTimeoutSeconds: 8,
			MaxSubcommands:     10,
			SubcommandProbes:   8,
		},
		Cache: domain.CacheSettings{
			Path: filepath.Join(home, ".cliscope", "cache", "analysis.json"),
		},
		Security: domain.SecuritySettings{
			RulesFile: filepath.Join(home, ".cliscope", "rules.yaml"),
		},
		History: domain.HistorySettings{
			Enabled: true,
			Path:    filepath.Join(home, ".cliscope", "history", "analyses.db"),
		},
	}
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	def := defaultConfig()
	if cfg.Probe.TimeoutSeconds == 0 {
		cfg.Probe.TimeoutSeconds = def.Probe.TimeoutSeconds
	}
	if cfg.Probe.HelpTimeoutSeconds == 0 {
		cfg.Probe.HelpTimeoutSeconds = def.Probe.HelpTimeoutSeconds
	}
	if cfg.Probe.MaxSubcommands == 0 {
		cfg.Probe.MaxSubcommands = def.Probe.MaxSubcommands
	}
	if cfg.Probe.SubcommandProbes == 0 {
		cfg.Probe.SubcommandProbes = def.Probe.SubcommandProbes
	}
	if cfg.Cache.Path == "" {
		cfg.Cache.Path = def.Cache.Path
	}
	if cfg.Security.RulesFile == "" {
		cfg.Security.RulesFile = def.Security.RulesFile
	}
	if cfg.History.Path == "" {
		cfg.History.Path = def.History.Path
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
