package todolist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/michael-freling/claude-code-quality-gate/internal/hooks"
	"go.uber.org/zap"
)

const (
	// CheckerName identifies the task list validator.
	CheckerName = "validate-todolist"
	// TargetFileName is the only file name the validator accepts.
	TargetFileName = "ai-todolist.json"
)

type todolistChecker struct {
	workDir string
	logger  *zap.Logger
}

// NewChecker creates the task list validator. Paths in messages are shown
// relative to workDir when possible.
func NewChecker(workDir string, logger *zap.Logger) hooks.Checker {
	return &todolistChecker{
		workDir: workDir,
		logger:  logger,
	}
}

func (c *todolistChecker) Name() string {
	return CheckerName
}

func (c *todolistChecker) Description() string {
	return "Validates the structure and formatting of " + TargetFileName
}

// Language is empty; the checker matches by file name, not extension.
func (c *todolistChecker) Language() string {
	return ""
}

func (c *todolistChecker) Accepts(filePath string) bool {
	return filepath.Base(filePath) == TargetFileName
}

func (c *todolistChecker) Check(ctx context.Context, filePath string) (*hooks.Verdict, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	findings := Validate(content)
	c.logger.Info("task list validated", zap.String("file", filePath), zap.Int("findings", len(findings)))

	if len(findings) == 0 {
		return hooks.NewPassVerdict(CheckerName, "Valid JSON"), nil
	}
	return hooks.NewBlockVerdict(CheckerName, findingsMessage(c.displayPath(filePath), findings)), nil
}

func (c *todolistChecker) displayPath(filePath string) string {
	if c.workDir == "" {
		return filePath
	}
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return filePath
	}
	rel, err := filepath.Rel(c.workDir, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filePath
	}
	return rel
}

func findingsMessage(displayPath string, findings []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n<json-validation-error>\nJSON VALIDATION FAILED: %s\n\n", displayPath)
	for _, finding := range findings {
		fmt.Fprintf(&b, "  • %s\n", finding)
	}
	fmt.Fprintf(&b, `
**Fix the JSON errors before proceeding.**

Common escape rules:
  • Quote in string: \"
  • Backslash: \\
  • Newline: \n
  • Tab: \t

Validate command:
  jq empty %s

</json-validation-error>
`, displayPath)
	return b.String()
}
