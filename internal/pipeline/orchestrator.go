package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/michael-freling/claude-code-quality-gate/internal/command"
	"go.uber.org/zap"
)

const (
	// UnusedImportRule is the diagnostic code of an unused import. It is never auto-fixed.
	UnusedImportRule = "F401"

	// FormatChangedExitCode is recorded when the format check found pending changes.
	FormatChangedExitCode = 1
)

// Signals are the independent outcomes of one pipeline run.
type Signals struct {
	LintOutput       string
	LintExitCode     int
	FormatOutput     string
	FormatExitCode   int
	HasUnusedImports bool
	HasAutoFixes     bool
}

// Orchestrator runs the check, fix, recheck and format phases in sequence.
type Orchestrator struct {
	runner  command.Runner
	workDir string
	logger  *zap.Logger
}

// NewOrchestrator creates an Orchestrator running tools in workDir.
func NewOrchestrator(runner command.Runner, workDir string, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		runner:  runner,
		workDir: workDir,
		logger:  logger,
	}
}

// Run executes the pipeline against filePath. Each phase blocks until the
// tool exits; later phases depend on earlier results so nothing runs in
// parallel. An error means the tool could not be started at all.
func (o *Orchestrator) Run(ctx context.Context, config *ToolConfig, filePath string) (*Signals, error) {
	signals := &Signals{}
	checkArgs := o.checkArgs(config, filePath)

	// Unused imports are excluded from the fix pass, so this dry run is the
	// only place they are seen.
	output, _, err := o.run(ctx, config, "check", checkArgs)
	if err != nil {
		return nil, err
	}
	signals.HasUnusedImports = strings.Contains(output, UnusedImportRule)

	output, exitCode, err := o.run(ctx, config, "fix", o.fixArgs(config, filePath))
	if err != nil {
		return nil, err
	}
	signals.HasAutoFixes = exitCode != 0

	if signals.HasAutoFixes && output != "" {
		output, exitCode, err = o.run(ctx, config, "recheck", checkArgs)
		if err != nil {
			return nil, err
		}
	}
	signals.LintOutput = strings.TrimSpace(output)
	signals.LintExitCode = exitCode

	formatArgs := append(append([]string{"format", "--check"}, config.FormatArgs...), filePath)
	_, exitCode, err = o.run(ctx, config, "format-check", formatArgs)
	if err != nil {
		return nil, err
	}
	if exitCode != 0 {
		applyArgs := append(append([]string{"format"}, config.FormatArgs...), filePath)
		if _, _, err := o.run(ctx, config, "format", applyArgs); err != nil {
			return nil, err
		}
		signals.FormatOutput = fmt.Sprintf("1 file reformatted: %s", filePath)
		signals.FormatExitCode = FormatChangedExitCode
	}

	return signals, nil
}

func (o *Orchestrator) checkArgs(config *ToolConfig, filePath string) []string {
	args := []string{"check"}
	if config.UnsafeFixes {
		args = append(args, "--unsafe-fixes")
	}
	args = append(args, config.LintArgs...)
	return append(args, filePath)
}

func (o *Orchestrator) fixArgs(config *ToolConfig, filePath string) []string {
	args := []string{"check", "--fix", "--exit-non-zero-on-fix"}
	if config.UnsafeFixes {
		args = append(args, "--unsafe-fixes")
	}
	args = append(args, "--extend-ignore", UnusedImportRule)
	args = append(args, config.LintArgs...)
	return append(args, filePath)
}

// run executes one phase and returns its combined output and exit code.
func (o *Orchestrator) run(ctx context.Context, config *ToolConfig, phase string, args []string) (string, int, error) {
	stdout, stderr, runErr := o.runner.RunInDir(ctx, o.workDir, config.ExecutablePath, args...)
	exitCode, err := command.ExitCode(runErr)
	if err != nil {
		return "", exitCode, fmt.Errorf("failed to run %s phase: %w", phase, err)
	}

	o.logger.Debug("pipeline phase finished",
		zap.String("phase", phase),
		zap.Strings("args", args),
		zap.Int("exitCode", exitCode))

	return command.CombinedOutput(stdout, stderr), exitCode, nil
}
