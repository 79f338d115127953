//go:build e2e

package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/michael-freling/claude-code-quality-gate/test/e2e/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProjectFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestPythonLint tests the python-lint hook against a mock ruff in .venv
func TestPythonLint(t *testing.T) {
	helpers.RequireBinary(t)

	tests := []struct {
		name          string
		configureRuff func(builder *helpers.MockToolBuilder)
		wantExitCode  int
		wantStdout    []string
		wantStderr    []string
		wantCalls     int
	}{
		{
			name:          "clean file passes",
			configureRuff: func(builder *helpers.MockToolBuilder) {},
			wantExitCode:  0,
			wantStdout:    []string{"[python-lint] Success: No lint or format issues found"},
			wantStderr:    []string{"[python-lint]"},
			wantCalls:     3,
		},
		{
			name: "unused import blocks",
			configureRuff: func(builder *helpers.MockToolBuilder) {
				builder.
					On("check --fix", "", 0).
					On("check", "main.py:1:8: F401 [*] `os` imported but unused", 1)
			},
			wantExitCode: 2,
			wantStderr: []string{
				"CRITICAL ERROR: UNUSED IMPORTS DETECTED",
				"**CRITICAL: DO NOT IGNORE THESE ERRORS!**",
			},
			wantCalls: 3,
		},
		{
			name: "format drift is applied and reported",
			configureRuff: func(builder *helpers.MockToolBuilder) {
				builder.On("format --check", "Would reformat: main.py", 1)
			},
			wantExitCode: 2,
			wantStderr: []string{
				"<ruff-format>",
				"1 file reformatted:",
				"FILE REFORMATTED",
			},
			wantCalls: 4,
		},
		{
			name: "remaining lint errors block",
			configureRuff: func(builder *helpers.MockToolBuilder) {
				builder.
					On("check --fix", "main.py:3:1: E999 SyntaxError", 1).
					On("check", "main.py:3:1: E999 SyntaxError", 1)
			},
			wantExitCode: 2,
			wantStderr: []string{
				"<ruff-lint>",
				"E999 SyntaxError",
			},
			wantCalls: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projectDir := t.TempDir()
			writeProjectFile(t, projectDir, "pyproject.toml", "[tool.ruff]\n")
			filePath := writeProjectFile(t, projectDir, "main.py", "import os\n")

			builder := helpers.NewMockToolBuilder(t, "ruff").InDir(filepath.Join(projectDir, ".venv", "bin"))
			tt.configureRuff(builder)
			builder.Build()

			result := helpers.RunHook(t, projectDir,
				helpers.PostToolUseEvent(t, "Edit", filePath),
				"python-lint", "--rules-dir", helpers.RulesDir(t))

			assert.Equal(t, tt.wantExitCode, result.ExitCode, "stderr: %s", result.Stderr)
			for _, want := range tt.wantStdout {
				assert.Contains(t, result.Stdout, want)
			}
			for _, want := range tt.wantStderr {
				assert.Contains(t, result.Stderr, want)
			}
			assert.Len(t, builder.GetCapturedCalls(), tt.wantCalls)
		})
	}
}

// TestPythonLint_ToolMissing tests that a project without ruff is skipped
func TestPythonLint_ToolMissing(t *testing.T) {
	helpers.RequireBinary(t)
	if _, err := exec.LookPath("ruff"); err == nil {
		t.Skip("ruff is installed in PATH")
	}

	projectDir := t.TempDir()
	filePath := writeProjectFile(t, projectDir, "main.py", "print(1)\n")

	result := helpers.RunHook(t, projectDir,
		helpers.PostToolUseEvent(t, "Write", filePath),
		"python-lint", "--rules-dir", helpers.RulesDir(t))

	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, result.Stdout, "[python-lint] Skipping: ruff not found in .venv or system PATH")
}

// TestTypeScript tests the any scanner and the type checker together
func TestTypeScript(t *testing.T) {
	helpers.RequireBinary(t)

	tests := []struct {
		name         string
		content      string
		tscOutput    string
		tscExitCode  int
		wantExitCode int
		wantStdout   []string
		wantStderr   []string
		wantTscCalls int
	}{
		{
			name:         "clean file passes both checks",
			content:      "export const x: number = 1;\n",
			wantExitCode: 0,
			wantStdout: []string{
				"[post-tool-use] Success: No 'any' type usage found",
				"Success: No type errors found",
			},
			wantTscCalls: 1,
		},
		{
			name:         "any usage blocks before the type checker runs",
			content:      "let x: any = 1;\n",
			wantExitCode: 2,
			wantStderr: []string{
				"<typescript-any-usage-error>",
				"Line 1: Direct 'any' type annotation",
			},
			wantTscCalls: 0,
		},
		{
			name:         "type errors block",
			content:      "export const x: number = 'a';\n",
			tscOutput:    "index.ts(1,14): error TS2322: Type 'string' is not assignable to type 'number'.",
			tscExitCode:  2,
			wantExitCode: 2,
			wantStderr: []string{
				"<typescript-errors>",
				"Found 1 error(s)",
				"TS2322",
			},
			wantTscCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projectDir := t.TempDir()
			writeProjectFile(t, projectDir, "tsconfig.json", "{}\n")
			filePath := writeProjectFile(t, projectDir, "index.ts", tt.content)

			builder := helpers.NewMockToolBuilder(t, "tsc").
				InDir(filepath.Join(projectDir, "node_modules", ".bin")).
				On("--noEmit", tt.tscOutput, tt.tscExitCode)
			builder.Build()

			result := helpers.RunHook(t, projectDir,
				helpers.PostToolUseEvent(t, "Write", filePath),
				"post-tool-use", "--rules-dir", helpers.RulesDir(t))

			assert.Equal(t, tt.wantExitCode, result.ExitCode, "stderr: %s", result.Stderr)
			for _, want := range tt.wantStdout {
				assert.Contains(t, result.Stdout, want)
			}
			for _, want := range tt.wantStderr {
				assert.Contains(t, result.Stderr, want)
			}
			assert.Len(t, builder.GetCapturedCalls(), tt.wantTscCalls)
		})
	}
}

// TestValidateTodolist tests the todo list validation hook
func TestValidateTodolist(t *testing.T) {
	helpers.RequireBinary(t)

	tests := []struct {
		name         string
		content      string
		wantExitCode int
		wantStderr   []string
	}{
		{
			name: "valid todo list passes",
			content: `{
  "meta": {
    "execution_started": false,
    "all_goals_accomplished": false
  },
  "tasks": []
}
`,
			wantExitCode: 0,
		},
		{
			name:         "broken todo list blocks",
			content:      `{"meta": {}, "tasks": [}`,
			wantExitCode: 2,
			wantStderr: []string{
				"JSON VALIDATION FAILED: ai-todolist.json",
				"JSON parse error at line 1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projectDir := t.TempDir()
			filePath := writeProjectFile(t, projectDir, "ai-todolist.json", tt.content)

			result := helpers.RunHook(t, projectDir,
				helpers.PostToolUseEvent(t, "Write", filePath),
				"validate-todolist", "--rules-dir", helpers.RulesDir(t))

			assert.Equal(t, tt.wantExitCode, result.ExitCode, "stderr: %s", result.Stderr)
			for _, want := range tt.wantStderr {
				assert.Contains(t, result.Stderr, want)
			}
		})
	}
}

// TestRules tests the rules command against the shipped rule documents
func TestRules(t *testing.T) {
	helpers.RequireBinary(t)

	result := helpers.RunHook(t, t.TempDir(), nil, "rules", "--rules-dir", helpers.RulesDir(t))

	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)
	assert.Contains(t, result.Stdout, "python: .py")
	assert.Contains(t, result.Stdout, "typescript: .ts, .tsx, .mts, .cts")
}
