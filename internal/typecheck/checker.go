package typecheck

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/michael-freling/claude-code-quality-gate/internal/command"
	"github.com/michael-freling/claude-code-quality-gate/internal/hooks"
	"github.com/michael-freling/claude-code-quality-gate/internal/rules"
	"go.uber.org/zap"
)

const (
	// CheckerName identifies the type checker.
	CheckerName = "typescript-typecheck"
	// Language is the rule document the checker reads.
	Language = "typescript"

	// MessageSuccess is the message key a rule document may override.
	MessageSuccess = "typecheck_success"
)

var (
	// DefaultExtensions apply when no typescript rule document loads.
	DefaultExtensions = []string{".ts", ".tsx", ".mts", ".cts"}
	// DefaultExcludedExtensions are never type checked.
	DefaultExcludedExtensions = []string{".d.ts"}

	errorCodePattern = regexp.MustCompile(`error TS\d+`)
)

type typeChecker struct {
	hooks.LanguageFilter
	runner  command.Runner
	workDir string
	logger  *zap.Logger
}

// NewChecker creates the compiler checker for typescript files.
func NewChecker(store *rules.Store, runner command.Runner, workDir string, logger *zap.Logger) hooks.Checker {
	return &typeChecker{
		LanguageFilter: hooks.NewLanguageFilter(store, Language, DefaultExtensions, DefaultExcludedExtensions),
		runner:         runner,
		workDir:        workDir,
		logger:         logger,
	}
}

func (c *typeChecker) Name() string {
	return CheckerName
}

func (c *typeChecker) Description() string {
	return "Type checks typescript files with tsc"
}

func (c *typeChecker) Check(ctx context.Context, filePath string) (*hooks.Verdict, error) {
	ruleSet := c.Rules()

	invocation, err := resolve(c.runner, c.workDir, ruleSet, filePath)
	if errors.Is(err, ErrToolNotFound) {
		return hooks.NewSkipVerdict(CheckerName, "Skipping: tsc not found in node_modules or system PATH"), nil
	}
	if err != nil {
		return nil, err
	}

	stdout, stderr, runErr := c.runner.RunInDir(ctx, c.workDir, invocation.ExecutablePath, invocation.Args...)
	exitCode, err := command.ExitCode(runErr)
	if err != nil {
		return nil, fmt.Errorf("failed to run %s: %w", invocation.ExecutablePath, err)
	}

	output := command.CombinedOutput(stdout, stderr)
	errorCount := len(errorCodePattern.FindAllString(output, -1))
	c.logger.Info("type check finished",
		zap.String("file", filePath),
		zap.Bool("fallback", invocation.Fallback),
		zap.Int("exitCode", exitCode),
		zap.Int("errors", errorCount))

	if exitCode == 0 {
		return hooks.NewPassVerdict(CheckerName, ruleSet.Message(MessageSuccess, "Success: No type errors found")), nil
	}
	return hooks.NewBlockVerdict(CheckerName, errorMessage(filePath, errorCount, output)), nil
}

func errorMessage(filePath string, errorCount int, output string) string {
	return fmt.Sprintf(`
<typescript-errors>
TypeScript type checking failed for: %s
Found %d error(s)

%s

REQUIRED ACTIONS:
- Fix all type errors shown above
- Ensure proper type annotations
- Use specific types instead of 'any'
- Ensure proper generic type parameters
</typescript-errors>
`, filePath, errorCount, output)
}
