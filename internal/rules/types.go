package rules

import (
	"encoding/json"
	"fmt"
	"strings"
)

// LanguageRuleSet is the policy document of one language.
// Every field is optional; the accessors below return the caller's default
// when a field is absent, so a zero LanguageRuleSet means "use built-in defaults".
type LanguageRuleSet struct {
	Language           string                  `json:"language,omitempty"`
	Extensions         []string                `json:"extensions,omitempty"`
	ExcludedExtensions []string                `json:"excluded_extensions,omitempty"`
	ExcludedPaths      []string                `json:"excluded_paths,omitempty"`
	Linting            *LintingConfig          `json:"linting,omitempty"`
	Formatting         *FormattingConfig       `json:"formatting,omitempty"`
	TypeChecking       *TypeCheckingConfig     `json:"type_checking,omitempty"`
	Messages           map[string]MessageValue `json:"messages,omitempty"`
}

// LintingConfig configures the external lint/fix tool.
type LintingConfig struct {
	Tool               string   `json:"tool,omitempty"`
	ExecutablePaths    []string `json:"executable_paths,omitempty"`
	AlwaysEnforceRules []string `json:"always_enforce_rules,omitempty"`
	FallbackRules      []string `json:"fallback_rules,omitempty"`
	LineLength         int      `json:"line_length,omitempty"`
	ConfigFile         string   `json:"config_file,omitempty"`
	UnsafeFixes        *bool    `json:"unsafe_fixes,omitempty"`
}

// FormattingConfig configures the external formatter.
type FormattingConfig struct {
	Tool       string `json:"tool,omitempty"`
	LineLength int    `json:"line_length,omitempty"`
}

// TypeCheckingConfig configures the type checker and the forbidden-pattern scanner.
type TypeCheckingConfig struct {
	Tool                string             `json:"tool,omitempty"`
	ExecutablePaths     []string           `json:"executable_paths,omitempty"`
	ConfigFile          string             `json:"config_file,omitempty"`
	FallbackOptions     []string           `json:"fallback_options,omitempty"`
	ForbiddenPatterns   []ForbiddenPattern `json:"forbidden_patterns,omitempty"`
	SuppressionComments []string           `json:"suppression_comments,omitempty"`
}

// ForbiddenPattern is a regular expression the scanner reports on.
type ForbiddenPattern struct {
	Pattern     string `json:"pattern"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion,omitempty"`
}

// MessageValue is a message template written either as a string or as a list of lines.
type MessageValue []string

// UnmarshalJSON accepts a JSON string or an array of strings.
func (m *MessageValue) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*m = MessageValue{single}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("message must be a string or a list of strings: %w", err)
	}
	*m = MessageValue(list)
	return nil
}

// Message returns the message stored under key joined by newlines, or def.
func (r *LanguageRuleSet) Message(key, def string) string {
	if r == nil {
		return def
	}
	value, ok := r.Messages[key]
	if !ok || len(value) == 0 {
		return def
	}
	return strings.Join(value, "\n")
}

// MessageList returns the lines stored under key, or def.
func (r *LanguageRuleSet) MessageList(key string, def []string) []string {
	if r == nil {
		return def
	}
	value, ok := r.Messages[key]
	if !ok || len(value) == 0 {
		return def
	}
	return value
}

// ExtensionsOr returns the allowed extensions, or def when none are configured.
func (r *LanguageRuleSet) ExtensionsOr(def []string) []string {
	if r == nil || len(r.Extensions) == 0 {
		return def
	}
	return r.Extensions
}

// ExcludedExtensionsOr returns the excluded extensions, or def when none are configured.
func (r *LanguageRuleSet) ExcludedExtensionsOr(def []string) []string {
	if r == nil || r.ExcludedExtensions == nil {
		return def
	}
	return r.ExcludedExtensions
}

// IsExcludedPath reports whether filePath contains any excluded path fragment.
func (r *LanguageRuleSet) IsExcludedPath(filePath string) bool {
	if r == nil {
		return false
	}
	for _, fragment := range r.ExcludedPaths {
		if fragment != "" && strings.Contains(filePath, fragment) {
			return true
		}
	}
	return false
}

// LintingOrEmpty never returns nil.
func (r *LanguageRuleSet) LintingOrEmpty() *LintingConfig {
	if r == nil || r.Linting == nil {
		return &LintingConfig{}
	}
	return r.Linting
}

// FormattingOrEmpty never returns nil.
func (r *LanguageRuleSet) FormattingOrEmpty() *FormattingConfig {
	if r == nil || r.Formatting == nil {
		return &FormattingConfig{}
	}
	return r.Formatting
}

// TypeCheckingOrEmpty never returns nil.
func (r *LanguageRuleSet) TypeCheckingOrEmpty() *TypeCheckingConfig {
	if r == nil || r.TypeChecking == nil {
		return &TypeCheckingConfig{}
	}
	return r.TypeChecking
}

// UnsafeFixesOr returns the configured unsafe_fixes flag, or def.
func (l *LintingConfig) UnsafeFixesOr(def bool) bool {
	if l.UnsafeFixes == nil {
		return def
	}
	return *l.UnsafeFixes
}

// StringOr returns value unless it is empty.
func StringOr(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

// IntOr returns value unless it is not positive.
func IntOr(value, def int) int {
	if value <= 0 {
		return def
	}
	return value
}

// ListOr returns values unless the list is empty.
func ListOr(values, def []string) []string {
	if len(values) == 0 {
		return def
	}
	return values
}
