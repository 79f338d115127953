// Package scanner reports forbidden patterns in source text line by line.
package scanner

import (
	"fmt"
	"regexp"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/michael-freling/claude-code-quality-gate/internal/rules"
	"go.uber.org/zap"
)

// DefaultPatternCacheSize bounds the number of compiled expressions kept per process.
const DefaultPatternCacheSize = 64

// DefaultSuppressionComments exempt the line they appear on.
var DefaultSuppressionComments = []string{"// @ts-ignore", "// @ts-expect-error"}

// DefaultForbiddenPatterns report usages of the `any` type.
var DefaultForbiddenPatterns = []rules.ForbiddenPattern{
	{Pattern: `:\s*any\b`, Description: "Direct 'any' type annotation"},
	{Pattern: `<any>`, Description: "Generic 'any' type parameter"},
	{Pattern: `as\s+any\b`, Description: "Type assertion to 'any'"},
	{Pattern: `Array<any>`, Description: "Array of 'any'"},
	{Pattern: `Promise<any>`, Description: "Promise of 'any'"},
}

// Pattern is a compiled forbidden pattern.
type Pattern struct {
	Regexp      *regexp.Regexp
	Description string
	Suggestion  string
}

// PatternCache keeps compiled expressions keyed by their source.
type PatternCache struct {
	cache *lru.Cache[string, *regexp.Regexp]
}

// NewPatternCache creates a cache holding up to size expressions.
func NewPatternCache(size int) (*PatternCache, error) {
	if size <= 0 {
		size = DefaultPatternCacheSize
	}
	cache, err := lru.New[string, *regexp.Regexp](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create pattern cache: %w", err)
	}
	return &PatternCache{cache: cache}, nil
}

// Compile returns the compiled form of expr, compiling it on first use.
// Invalid expressions are not cached.
func (c *PatternCache) Compile(expr string) (*regexp.Regexp, error) {
	if re, ok := c.cache.Get(expr); ok {
		return re, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	c.cache.Add(expr, re)
	return re, nil
}

// Len returns the number of cached expressions.
func (c *PatternCache) Len() int {
	return c.cache.Len()
}

// CompilePatterns compiles the configured patterns, or the defaults when none
// are configured. Invalid expressions are logged and skipped; if none of the
// configured expressions compile the defaults are used instead.
func CompilePatterns(cache *PatternCache, configured []rules.ForbiddenPattern, logger *zap.Logger) []Pattern {
	if len(configured) > 0 {
		patterns := compileAll(cache, configured, logger)
		if len(patterns) > 0 {
			return patterns
		}
		logger.Warn("no configured forbidden pattern compiled, using defaults")
	}
	return compileAll(cache, DefaultForbiddenPatterns, logger)
}

func compileAll(cache *PatternCache, sources []rules.ForbiddenPattern, logger *zap.Logger) []Pattern {
	patterns := make([]Pattern, 0, len(sources))
	for _, source := range sources {
		re, err := cache.Compile(source.Pattern)
		if err != nil {
			logger.Warn("skipping invalid forbidden pattern",
				zap.String("pattern", source.Pattern),
				zap.Error(err))
			continue
		}
		patterns = append(patterns, Pattern{
			Regexp:      re,
			Description: source.Description,
			Suggestion:  source.Suggestion,
		})
	}
	return patterns
}
