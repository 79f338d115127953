package scanner

import (
	"fmt"
	"strings"

	"github.com/michael-freling/claude-code-quality-gate/internal/hooks"
	"github.com/michael-freling/claude-code-quality-gate/internal/rules"
)

// Message keys a rule document may override.
const (
	MessageSuccess      = "any_success"
	MessageAlternatives = "any_alternatives"
)

const defaultSuccessMessage = "Success: No 'any' type usage found"

// DefaultAlternatives are listed after the violations.
var DefaultAlternatives = []string{
	"Use 'unknown' if the type is truly unknown, then use type guards",
	"Use proper generic types (e.g., <T>, <T extends SomeType>)",
	"Use union types (e.g., string | number | null)",
	"Use specific interface or type definitions",
}

// Decide turns the violations of filePath into a verdict.
func Decide(checkerName, filePath string, violations []Violation, ruleSet *rules.LanguageRuleSet) *hooks.Verdict {
	if len(violations) == 0 {
		return hooks.NewPassVerdict(checkerName, ruleSet.Message(MessageSuccess, defaultSuccessMessage))
	}
	return hooks.NewBlockVerdict(checkerName, violationMessage(filePath, violations, ruleSet))
}

func violationMessage(filePath string, violations []Violation, ruleSet *rules.LanguageRuleSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n<typescript-any-usage-error>\nCRITICAL: 'any' TYPE USAGE DETECTED\n\nFile: %s\nFound %d violation(s)\n\n", filePath, len(violations))

	for _, v := range violations {
		fmt.Fprintf(&b, "Line %d: %s\n  %s\n", v.Line, v.Description, v.Text)
		if v.Suggestion != "" {
			fmt.Fprintf(&b, "  Suggestion: %s\n", v.Suggestion)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nYou are STRICTLY PROHIBITED from using the 'any' type.\n\nALTERNATIVES:\n")
	for _, alternative := range ruleSet.MessageList(MessageAlternatives, DefaultAlternatives) {
		fmt.Fprintf(&b, "- %s\n", alternative)
	}

	b.WriteString("\nFIX IMMEDIATELY: Replace all 'any' types with proper type annotations.\n</typescript-any-usage-error>\n")
	return b.String()
}
