package scanner

import (
	"context"
	"fmt"
	"os"

	"github.com/michael-freling/claude-code-quality-gate/internal/hooks"
	"github.com/michael-freling/claude-code-quality-gate/internal/rules"
	"go.uber.org/zap"
)

const (
	// CheckerName identifies the forbidden-pattern checker.
	CheckerName = "typescript-any"
	// Language is the rule document the checker reads.
	Language = "typescript"
)

var (
	// DefaultExtensions apply when no typescript rule document loads.
	DefaultExtensions = []string{".ts", ".tsx", ".mts", ".cts"}
	// DefaultExcludedExtensions are never scanned.
	DefaultExcludedExtensions = []string{".d.ts"}
)

type anyChecker struct {
	hooks.LanguageFilter
	cache  *PatternCache
	logger *zap.Logger
}

// NewChecker creates the forbidden-pattern checker for typescript files.
func NewChecker(store *rules.Store, cache *PatternCache, logger *zap.Logger) hooks.Checker {
	return &anyChecker{
		LanguageFilter: hooks.NewLanguageFilter(store, Language, DefaultExtensions, DefaultExcludedExtensions),
		cache:          cache,
		logger:         logger,
	}
}

func (c *anyChecker) Name() string {
	return CheckerName
}

func (c *anyChecker) Description() string {
	return "Reports forbidden 'any' type usage in typescript files"
}

func (c *anyChecker) Check(ctx context.Context, filePath string) (*hooks.Verdict, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	ruleSet := c.Rules()
	typeChecking := ruleSet.TypeCheckingOrEmpty()
	patterns := CompilePatterns(c.cache, typeChecking.ForbiddenPatterns, c.logger)
	suppressions := rules.ListOr(typeChecking.SuppressionComments, DefaultSuppressionComments)

	violations := New(patterns, suppressions).Scan(string(content))
	c.logger.Info("scan finished",
		zap.String("file", filePath),
		zap.Int("patterns", len(patterns)),
		zap.Int("violations", len(violations)))

	return Decide(CheckerName, filePath, violations, ruleSet), nil
}
