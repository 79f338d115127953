package hooks

import (
	"path/filepath"
	"strings"

	"github.com/michael-freling/claude-code-quality-gate/internal/rules"
)

// LanguageFilter decides whether a path belongs to a language, using the
// language's rule document when one loads and the built-in lists otherwise.
// Checkers embed it to implement Checker.Accepts.
type LanguageFilter struct {
	store              *rules.Store
	language           string
	defaultExtensions  []string
	defaultExcludedExt []string
}

// NewLanguageFilter creates a filter for language.
func NewLanguageFilter(store *rules.Store, language string, defaultExtensions, defaultExcluded []string) LanguageFilter {
	return LanguageFilter{
		store:              store,
		language:           language,
		defaultExtensions:  defaultExtensions,
		defaultExcludedExt: defaultExcluded,
	}
}

// Language returns the language the filter was built for.
func (f LanguageFilter) Language() string {
	return f.language
}

// Rules returns the language's rule set; empty when no document loads.
func (f LanguageFilter) Rules() *rules.LanguageRuleSet {
	ruleSet, _ := f.store.Get(f.language)
	return ruleSet
}

// Accepts requires the extension to be allowed, not excluded, and the path
// not to contain an excluded fragment.
func (f LanguageFilter) Accepts(filePath string) bool {
	if filePath == "" {
		return false
	}

	ruleSet := f.Rules()
	if !hasExtension(filePath, ruleSet.ExtensionsOr(f.defaultExtensions)) {
		return false
	}

	lowerPath := strings.ToLower(filePath)
	for _, excluded := range ruleSet.ExcludedExtensionsOr(f.defaultExcludedExt) {
		if excluded != "" && strings.HasSuffix(lowerPath, strings.ToLower(excluded)) {
			return false
		}
	}

	return !ruleSet.IsExcludedPath(filePath)
}

func hasExtension(filePath string, extensions []string) bool {
	ext := filepath.Ext(filePath)
	if ext == "" {
		return false
	}
	for _, allowed := range extensions {
		if strings.EqualFold(ext, allowed) {
			return true
		}
	}
	return false
}
