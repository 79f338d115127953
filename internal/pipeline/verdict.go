package pipeline

import (
	"fmt"
	"strings"

	"github.com/michael-freling/claude-code-quality-gate/internal/hooks"
	"github.com/michael-freling/claude-code-quality-gate/internal/rules"
)

// Message keys a rule document may override.
const (
	MessageSuccess              = "success"
	MessageFormatNotice         = "format_notice"
	MessageAutofixNotice        = "autofix_notice"
	MessageUnusedImportsWarning = "unused_imports_warning"
	MessageErrorFixReminder     = "error_fix_reminder"
)

const (
	defaultSuccessMessage = "Success: No lint or format issues found"

	defaultFormatNotice = `FILE REFORMATTED
The file has been reformatted by %s.
NEXT STEP: Use Read() to view the reformatted content before making further edits.`

	defaultAutofixNotice = `FILE AUTOMATICALLY MODIFIED
The file has been changed by %s auto-fix.
REQUIRED ACTION: Use Read() to get the latest file content before any Edit() operations.`

	defaultUnusedImportsWarning = `
CRITICAL ERROR: UNUSED IMPORTS DETECTED - IMMEDIATE ACTION REQUIRED

You have added import statements that are NOT being used anywhere in the code.

**WHAT YOU MUST DO RIGHT NOW:**
Option 1: DELETE the unused import immediately
Option 2: ADD code that actually USES the import

**WARNING**: FILE HAS BEEN MODIFIED - Use Read() before attempting Edit again.
`

	defaultErrorFixReminder = `**CRITICAL: DO NOT IGNORE THESE ERRORS!**
You MUST fix ALL lint errors and formatting issues shown above.
These are not warnings - they are REQUIRED fixes.
The code WILL NOT pass CI/CD until these are resolved.

IMPORTANT: If the file was auto-fixed, use Read() before Edit to avoid conflicts.`
)

// Decide maps pipeline signals to a verdict. It is a pure function of its inputs.
//
//   - format changed, lint clean, no unused imports: block with the format notice
//   - autofix applied, everything else clean: block with the autofix notice
//   - any other non-clean signal: block with the combined report
//   - all clean: pass
func Decide(checkerName, tool string, signals *Signals, ruleSet *rules.LanguageRuleSet) *hooks.Verdict {
	lintClean := signals.LintExitCode == 0
	formatClean := signals.FormatExitCode == 0

	switch {
	case !formatClean && lintClean && !signals.HasUnusedImports:
		return hooks.NewBlockVerdict(checkerName, formatOnlyMessage(tool, signals, ruleSet))
	case lintClean && formatClean && !signals.HasUnusedImports && signals.HasAutoFixes:
		return hooks.NewBlockVerdict(checkerName, autofixMessage(tool, signals, ruleSet))
	case lintClean && formatClean && !signals.HasUnusedImports:
		return hooks.NewPassVerdict(checkerName, ruleSet.Message(MessageSuccess, defaultSuccessMessage))
	default:
		return hooks.NewBlockVerdict(checkerName, combinedMessage(tool, signals, ruleSet))
	}
}

func formatOnlyMessage(tool string, signals *Signals, ruleSet *rules.LanguageRuleSet) string {
	notice := ruleSet.Message(MessageFormatNotice, fmt.Sprintf(defaultFormatNotice, tool))
	return fmt.Sprintf("\n<%s-format>\n%s\n\n%s\n</%s-format>\n", tool, signals.FormatOutput, notice, tool)
}

func autofixMessage(tool string, signals *Signals, ruleSet *rules.LanguageRuleSet) string {
	notice := ruleSet.Message(MessageAutofixNotice, fmt.Sprintf(defaultAutofixNotice, tool))
	if signals.LintOutput == "" {
		return fmt.Sprintf("\n<%s-auto-fixed>\n%s\n</%s-auto-fixed>\n", tool, notice, tool)
	}
	return fmt.Sprintf("\n<%s-auto-fixed>\n%s\n\n%s\n</%s-auto-fixed>\n", tool, signals.LintOutput, notice, tool)
}

// combinedMessage includes each section only when its own signal is set and
// appends the reminder when lint is dirty or unused imports remain.
func combinedMessage(tool string, signals *Signals, ruleSet *rules.LanguageRuleSet) string {
	lintClean := signals.LintExitCode == 0

	var b strings.Builder
	switch {
	case signals.HasAutoFixes && lintClean:
		if signals.LintOutput != "" {
			b.WriteString(autofixMessage(tool, signals, ruleSet))
		}
	case !lintClean && signals.LintOutput != "":
		fmt.Fprintf(&b, "\n<%s-lint>\n%s\n</%s-lint>\n", tool, signals.LintOutput, tool)
	}

	if signals.FormatExitCode != 0 && signals.FormatOutput != "" {
		fmt.Fprintf(&b, "\n<%s-format>\n%s\n</%s-format>\n", tool, signals.FormatOutput, tool)
	}

	if signals.HasUnusedImports {
		b.WriteString(ruleSet.Message(MessageUnusedImportsWarning, defaultUnusedImportsWarning))
	}

	if !lintClean || signals.HasUnusedImports {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(ruleSet.Message(MessageErrorFixReminder, defaultErrorFixReminder))
	}

	return b.String()
}
