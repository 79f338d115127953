package pipeline

import (
	"testing"

	"github.com/michael-freling/claude-code-quality-gate/internal/hooks"
	"github.com/michael-freling/claude-code-quality-gate/internal/rules"
	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name         string
		signals      Signals
		ruleSet      *rules.LanguageRuleSet
		wantDecision hooks.Decision
		wantContains []string
		wantAbsent   []string
	}{
		{
			name:         "all clean passes",
			signals:      Signals{LintOutput: "All checks passed!"},
			wantDecision: hooks.DecisionPass,
			wantContains: []string{"Success: No lint or format issues found"},
		},
		{
			name: "format only change blocks with format notice",
			signals: Signals{
				FormatOutput:   "1 file reformatted: main.py",
				FormatExitCode: FormatChangedExitCode,
			},
			wantDecision: hooks.DecisionBlock,
			wantContains: []string{"<ruff-format>", "1 file reformatted: main.py", "FILE REFORMATTED", "</ruff-format>"},
			wantAbsent:   []string{"CRITICAL: DO NOT IGNORE", "<ruff-lint>"},
		},
		{
			name:         "autofix only blocks with autofix notice",
			signals:      Signals{LintOutput: "All checks passed!", HasAutoFixes: true},
			wantDecision: hooks.DecisionBlock,
			wantContains: []string{"<ruff-auto-fixed>", "All checks passed!", "FILE AUTOMATICALLY MODIFIED"},
			wantAbsent:   []string{"CRITICAL: DO NOT IGNORE"},
		},
		{
			name:         "autofix with empty output still blocks",
			signals:      Signals{HasAutoFixes: true},
			wantDecision: hooks.DecisionBlock,
			wantContains: []string{"<ruff-auto-fixed>\nFILE AUTOMATICALLY MODIFIED"},
		},
		{
			name:         "lint errors block with the reminder",
			signals:      Signals{LintOutput: "main.py:1:1: E501 Line too long", LintExitCode: 1},
			wantDecision: hooks.DecisionBlock,
			wantContains: []string{"<ruff-lint>\nmain.py:1:1: E501 Line too long\n</ruff-lint>", "CRITICAL: DO NOT IGNORE THESE ERRORS"},
			wantAbsent:   []string{"UNUSED IMPORTS", "<ruff-format>"},
		},
		{
			name:         "unused imports alone block with warning and reminder",
			signals:      Signals{HasUnusedImports: true},
			wantDecision: hooks.DecisionBlock,
			wantContains: []string{"UNUSED IMPORTS DETECTED", "CRITICAL: DO NOT IGNORE THESE ERRORS"},
			wantAbsent:   []string{"<ruff-lint>"},
		},
		{
			name: "unused imports with format change use the combined report",
			signals: Signals{
				HasUnusedImports: true,
				FormatOutput:     "1 file reformatted: main.py",
				FormatExitCode:   FormatChangedExitCode,
			},
			wantDecision: hooks.DecisionBlock,
			wantContains: []string{"<ruff-format>\n1 file reformatted: main.py\n</ruff-format>", "UNUSED IMPORTS DETECTED"},
			wantAbsent:   []string{"FILE REFORMATTED"},
		},
		{
			name: "lint errors with format change include both sections",
			signals: Signals{
				LintOutput:     "main.py:3:1: F821 Undefined name `x`",
				LintExitCode:   1,
				FormatOutput:   "1 file reformatted: main.py",
				FormatExitCode: FormatChangedExitCode,
				HasAutoFixes:   true,
			},
			wantDecision: hooks.DecisionBlock,
			wantContains: []string{"<ruff-lint>", "F821", "<ruff-format>", "CRITICAL: DO NOT IGNORE"},
			wantAbsent:   []string{"<ruff-auto-fixed>"},
		},
		{
			name: "autofix with format change reports the format notice",
			signals: Signals{
				LintOutput:     "Found 1 error (1 fixed, 0 remaining).",
				HasAutoFixes:   true,
				FormatOutput:   "1 file reformatted: main.py",
				FormatExitCode: FormatChangedExitCode,
			},
			wantDecision: hooks.DecisionBlock,
			wantContains: []string{"<ruff-format>\n1 file reformatted: main.py\n\nFILE REFORMATTED"},
		},
		{
			name:    "rule set messages override defaults",
			signals: Signals{LintOutput: "E501", LintExitCode: 1},
			ruleSet: &rules.LanguageRuleSet{
				Messages: map[string]rules.MessageValue{
					MessageErrorFixReminder: {"Fix it.", "Now."},
				},
			},
			wantDecision: hooks.DecisionBlock,
			wantContains: []string{"Fix it.\nNow."},
			wantAbsent:   []string{"CRITICAL: DO NOT IGNORE"},
		},
		{
			name:    "custom success message",
			signals: Signals{},
			ruleSet: &rules.LanguageRuleSet{
				Messages: map[string]rules.MessageValue{MessageSuccess: {"ok"}},
			},
			wantDecision: hooks.DecisionPass,
			wantContains: []string{"ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signals := tt.signals
			got := Decide(CheckerName, "ruff", &signals, tt.ruleSet)

			assert.Equal(t, tt.wantDecision, got.Decision)
			assert.Equal(t, CheckerName, got.CheckerName)
			for _, want := range tt.wantContains {
				assert.Contains(t, got.Message, want)
			}
			for _, absent := range tt.wantAbsent {
				assert.NotContains(t, got.Message, absent)
			}
		})
	}
}

func TestDecide_IsPure(t *testing.T) {
	signals := &Signals{LintOutput: "E501", LintExitCode: 1, HasUnusedImports: true}

	first := Decide(CheckerName, "ruff", signals, nil)
	second := Decide(CheckerName, "ruff", signals, nil)

	assert.Equal(t, first, second)
	assert.Equal(t, &Signals{LintOutput: "E501", LintExitCode: 1, HasUnusedImports: true}, signals)
}
