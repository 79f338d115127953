// Package pipeline runs an external linter/formatter against one file and
// turns its phases into a verdict.
package pipeline

import (
	"errors"
	"strconv"
	"strings"

	"github.com/michael-freling/claude-code-quality-gate/internal/command"
	"github.com/michael-freling/claude-code-quality-gate/internal/rules"
	"go.uber.org/zap"
)

const (
	// DefaultTool is the executable looked up on PATH when no candidate path exists.
	DefaultTool = "ruff"
	// DefaultConfigFile marks a project that configures the tool itself.
	DefaultConfigFile = "pyproject.toml"
	// DefaultLineLength is used in fallback mode when no line length is configured.
	DefaultLineLength = 119
)

var (
	// DefaultExecutablePaths are probed in order, relative to the working directory.
	DefaultExecutablePaths = []string{".venv/bin/ruff", "venv/bin/ruff"}

	// DefaultAlwaysEnforceRules are selected in both modes.
	DefaultAlwaysEnforceRules = []string{"ASYNC", "ANN001", "ANN201", "ANN202", "ANN204", "ANN205", "ANN206", "ANN401"}

	// DefaultFallbackRules form the baseline selection when the project has no configuration.
	DefaultFallbackRules = []string{"PLE", "PLW", "E", "W", "F", "I", "Q", "UP", "C4", "PT"}

	// ErrToolNotFound means no executable could be resolved; the pipeline is skipped.
	ErrToolNotFound = errors.New("tool not found")
)

// ToolConfig holds the effective invocation parameters of one pipeline run.
type ToolConfig struct {
	Tool           string
	ExecutablePath string
	LintArgs       []string
	FormatArgs     []string
	UnsafeFixes    bool
	// Fallback is true when the arguments carry a complete rule selection
	// instead of deferring to the project's configuration file.
	Fallback bool
}

// Resolver decides the tool invocation from a rule set and the working directory.
type Resolver struct {
	runner  command.Runner
	workDir string
	logger  *zap.Logger
}

// NewResolver creates a Resolver probing paths relative to workDir.
func NewResolver(runner command.Runner, workDir string, logger *zap.Logger) *Resolver {
	return &Resolver{
		runner:  runner,
		workDir: workDir,
		logger:  logger,
	}
}

// Resolve returns the tool configuration, or ErrToolNotFound.
//
// Fallback mode is used when the executable only came from PATH or the
// project configuration file does not exist. It selects the fallback rules
// plus the always-enforced rules and sets the line length explicitly.
// Otherwise the project file is trusted and only the always-enforced rules
// are added on top of it.
func (r *Resolver) Resolve(ruleSet *rules.LanguageRuleSet) (*ToolConfig, error) {
	linting := ruleSet.LintingOrEmpty()
	tool := rules.StringOr(linting.Tool, DefaultTool)

	executable, found := command.FindExecutable(
		r.runner,
		r.workDir,
		rules.ListOr(linting.ExecutablePaths, DefaultExecutablePaths),
		tool,
	)
	if !found {
		return nil, ErrToolNotFound
	}

	alwaysEnforce := rules.ListOr(linting.AlwaysEnforceRules, DefaultAlwaysEnforceRules)
	configFile := rules.StringOr(linting.ConfigFile, DefaultConfigFile)
	hasProjectConfig := command.FileExists(command.ResolvePath(r.workDir, configFile))

	config := &ToolConfig{
		Tool:           tool,
		ExecutablePath: executable.Path,
		UnsafeFixes:    linting.UnsafeFixesOr(true),
		Fallback:       executable.FromPATH || !hasProjectConfig,
	}

	if config.Fallback {
		lineLength := rules.IntOr(linting.LineLength, DefaultLineLength)
		formatLineLength := rules.IntOr(ruleSet.FormattingOrEmpty().LineLength, lineLength)
		selected := append(append([]string{}, rules.ListOr(linting.FallbackRules, DefaultFallbackRules)...), alwaysEnforce...)

		config.LintArgs = []string{"--select", strings.Join(selected, ","), "--line-length", strconv.Itoa(lineLength)}
		config.FormatArgs = []string{"--line-length", strconv.Itoa(formatLineLength)}
	} else {
		config.LintArgs = []string{"--extend-select", strings.Join(alwaysEnforce, ",")}
		config.FormatArgs = []string{}
	}

	r.logger.Debug("resolved tool configuration",
		zap.String("executable", config.ExecutablePath),
		zap.Bool("fallback", config.Fallback),
		zap.Bool("fromPATH", executable.FromPATH),
		zap.Bool("projectConfig", hasProjectConfig),
		zap.Strings("lintArgs", config.LintArgs))

	return config, nil
}
