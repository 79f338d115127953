//go:build e2e

package helpers

import (
	"bytes"
	"encoding/json"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"
)

// BinaryName is the installed hook executable.
const BinaryName = "claude-quality-gate"

// HookResult is the outcome of one hook invocation
type HookResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// RequireBinary skips the test if the hook executable is not available in PATH
func RequireBinary(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath(BinaryName); err != nil {
		t.Skipf("%s not found in PATH", BinaryName)
	}
}

// RulesDir returns the rule documents shipped with the repository
func RulesDir(t *testing.T) string {
	t.Helper()

	dir, err := filepath.Abs(filepath.Join("..", "..", "rules"))
	if err != nil {
		t.Fatalf("failed to resolve rules dir: %v", err)
	}
	return dir
}

// PostToolUseEvent encodes the event the host sends after editing filePath
func PostToolUseEvent(t *testing.T, toolName, filePath string) []byte {
	t.Helper()

	event := map[string]interface{}{
		"session_id":      "e2e",
		"hook_event_name": "PostToolUse",
		"tool_name":       toolName,
		"tool_input": map[string]string{
			"file_path": filePath,
		},
		"tool_response": map[string]interface{}{
			"success": true,
		},
	}
	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("failed to encode event: %v", err)
	}
	return data
}

// RunHook runs the hook executable in dir with stdin as the event
func RunHook(t *testing.T, dir string, stdin []byte, args ...string) HookResult {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(BinaryName, args...)
	cmd.Dir = dir
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	result := HookResult{}
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("failed to run %s: %v", BinaryName, err)
		}
		result.ExitCode = exitErr.ExitCode()
	}
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	return result
}
