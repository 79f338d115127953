package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultSettingsPath is the settings file probed when no --config is given.
	DefaultSettingsPath = ".claude/quality-gate.yaml"

	// EnvRulesDir overrides the directory holding per-language rule documents.
	EnvRulesDir = "CLAUDE_QUALITY_GATE_RULES_DIR"
	// EnvLogFile enables diagnostic logging to the given file.
	EnvLogFile = "CLAUDE_QUALITY_GATE_LOG_FILE"
	// EnvVerbose enables debug-level logging when set to a true value.
	EnvVerbose = "CLAUDE_QUALITY_GATE_VERBOSE"
	// EnvDisable is a comma separated list of checker names to skip.
	EnvDisable = "CLAUDE_QUALITY_GATE_DISABLE"
)

// Config holds the settings of one gate invocation.
type Config struct {
	RulesDir         string   `yaml:"rules_dir"`
	LogFile          string   `yaml:"log_file"`
	Verbose          bool     `yaml:"verbose"`
	DisabledCheckers []string `yaml:"disabled_checkers"`
}

// Default returns the configuration used when nothing overrides it.
// Rules live in a rules directory next to the directory of the executable.
func Default() *Config {
	rulesDir := "rules"
	if exe, err := os.Executable(); err == nil {
		rulesDir = filepath.Join(filepath.Dir(filepath.Dir(exe)), "rules")
	}

	return &Config{
		RulesDir: rulesDir,
	}
}

// Load layers defaults, the settings file and the environment.
// An empty path probes DefaultSettingsPath and tolerates its absence;
// an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	settingsPath := path
	if settingsPath == "" {
		settingsPath = DefaultSettingsPath
	}

	data, err := os.ReadFile(settingsPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return Default(), fmt.Errorf("failed to parse settings file %s: %w", settingsPath, err)
		}
	case errors.Is(err, os.ErrNotExist) && path == "":
	default:
		return Default(), fmt.Errorf("failed to read settings file %s: %w", settingsPath, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvRulesDir); v != "" {
		c.RulesDir = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv(EnvVerbose); v != "" {
		if verbose, err := strconv.ParseBool(v); err == nil {
			c.Verbose = verbose
		}
	}
	if v := os.Getenv(EnvDisable); v != "" {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				c.DisabledCheckers = append(c.DisabledCheckers, name)
			}
		}
	}
}

// IsDisabled reports whether the named checker was switched off.
func (c *Config) IsDisabled(name string) bool {
	for _, disabled := range c.DisabledCheckers {
		if disabled == name {
			return true
		}
	}
	return false
}
