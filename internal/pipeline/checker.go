package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/michael-freling/claude-code-quality-gate/internal/command"
	"github.com/michael-freling/claude-code-quality-gate/internal/hooks"
	"github.com/michael-freling/claude-code-quality-gate/internal/rules"
	"go.uber.org/zap"
)

const (
	// CheckerName identifies the lint-and-format checker.
	CheckerName = "python-lint"
	// Language is the rule document the checker reads.
	Language = "python"
)

// DefaultExtensions apply when no python rule document loads.
var DefaultExtensions = []string{".py"}

// lintChecker runs the lint and format pipeline for python files.
type lintChecker struct {
	hooks.LanguageFilter
	resolver     *Resolver
	orchestrator *Orchestrator
	lockDir      string
	logger       *zap.Logger
}

// NewChecker creates the lint-and-format checker. Tools run in workDir and
// per-file locks are created in lockDir (the system temp dir when empty).
func NewChecker(store *rules.Store, runner command.Runner, workDir, lockDir string, logger *zap.Logger) hooks.Checker {
	return &lintChecker{
		LanguageFilter: hooks.NewLanguageFilter(store, Language, DefaultExtensions, nil),
		resolver:       NewResolver(runner, workDir, logger),
		orchestrator:   NewOrchestrator(runner, workDir, logger),
		lockDir:        lockDir,
		logger:         logger,
	}
}

// Name returns the unique identifier for this checker.
func (c *lintChecker) Name() string {
	return CheckerName
}

// Description returns a human-readable description of what this checker does.
func (c *lintChecker) Description() string {
	return "Lints, auto-fixes and formats python files with ruff"
}

// Check resolves the tool, runs the pipeline under the target's lock and decides.
func (c *lintChecker) Check(ctx context.Context, filePath string) (*hooks.Verdict, error) {
	ruleSet := c.Rules()

	config, err := c.resolver.Resolve(ruleSet)
	if errors.Is(err, ErrToolNotFound) {
		tool := rules.StringOr(ruleSet.LintingOrEmpty().Tool, DefaultTool)
		return hooks.NewSkipVerdict(CheckerName, fmt.Sprintf("Skipping: %s not found in .venv or system PATH", tool)), nil
	}
	if err != nil {
		return nil, err
	}

	fileLock, err := lockTarget(c.lockDir, filePath)
	if err != nil {
		c.logger.Warn("running without file lock", zap.String("file", filePath), zap.Error(err))
	} else {
		defer func() {
			if err := releaseTarget(fileLock); err != nil {
				c.logger.Warn("failed to release file lock", zap.String("file", filePath), zap.Error(err))
			}
		}()
	}

	signals, err := c.orchestrator.Run(ctx, config, filePath)
	if err != nil {
		return nil, err
	}

	c.logger.Info("pipeline finished",
		zap.String("file", filePath),
		zap.Int("lintExitCode", signals.LintExitCode),
		zap.Int("formatExitCode", signals.FormatExitCode),
		zap.Bool("unusedImports", signals.HasUnusedImports),
		zap.Bool("autoFixes", signals.HasAutoFixes))

	return Decide(CheckerName, config.Tool, signals, ruleSet), nil
}
