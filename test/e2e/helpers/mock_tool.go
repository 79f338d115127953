//go:build e2e

package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// MockToolBuilder creates mock lint and type checker scripts for testing.
// The hooks can then be exercised in CI without ruff or tsc installed.
type MockToolBuilder struct {
	t         *testing.T
	name      string
	responses []toolResponse
	scriptDir string
	argsPath  string
}

// toolResponse is returned when the arguments of an invocation start with prefix.
type toolResponse struct {
	prefix   string
	stdout   string
	exitCode int
}

// NewMockToolBuilder creates a builder for a script named name
func NewMockToolBuilder(t *testing.T, name string) *MockToolBuilder {
	t.Helper()

	return &MockToolBuilder{
		t:    t,
		name: name,
	}
}

// On registers the output and exit code of invocations whose arguments start
// with prefix. The first matching registration wins; unmatched invocations
// print nothing and exit 0.
func (m *MockToolBuilder) On(prefix, stdout string, exitCode int) *MockToolBuilder {
	m.responses = append(m.responses, toolResponse{
		prefix:   prefix,
		stdout:   stdout,
		exitCode: exitCode,
	})
	return m
}

// InDir writes the script to dir instead of a temporary directory
func (m *MockToolBuilder) InDir(dir string) *MockToolBuilder {
	m.scriptDir = dir
	return m
}

// Build creates the mock script and returns the path
func (m *MockToolBuilder) Build() string {
	m.t.Helper()

	dir := m.scriptDir
	if dir == "" {
		dir = m.t.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		m.t.Fatalf("failed to create script dir: %v", err)
	}

	scriptPath := filepath.Join(dir, m.name)
	m.argsPath = filepath.Join(m.t.TempDir(), m.name+".args")

	if err := os.WriteFile(scriptPath, []byte(m.generateScript()), 0755); err != nil {
		m.t.Fatalf("failed to write mock script: %v", err)
	}
	return scriptPath
}

// GetCapturedCalls returns the arguments of every invocation, one line per call
func (m *MockToolBuilder) GetCapturedCalls() []string {
	m.t.Helper()

	if m.argsPath == "" {
		m.t.Fatal("mock script not built yet - call Build() first")
	}

	data, err := os.ReadFile(m.argsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}
		}
		m.t.Fatalf("failed to read captured args: %v", err)
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return []string{}
	}
	return strings.Split(content, "\n")
}

func (m *MockToolBuilder) generateScript() string {
	var scriptBuilder strings.Builder

	scriptBuilder.WriteString("#!/bin/bash\n")
	scriptBuilder.WriteString(fmt.Sprintf("# Mock %s script for testing\n\n", m.name))
	scriptBuilder.WriteString(fmt.Sprintf("echo \"$*\" >> %s\n\n", shellQuote(m.argsPath)))

	for _, response := range m.responses {
		scriptBuilder.WriteString(fmt.Sprintf("if [[ \"$*\" == %s* ]]; then\n", shellQuote(response.prefix)))
		if response.stdout != "" {
			scriptBuilder.WriteString(fmt.Sprintf("  echo %s\n", shellQuote(response.stdout)))
		}
		scriptBuilder.WriteString(fmt.Sprintf("  exit %d\n", response.exitCode))
		scriptBuilder.WriteString("fi\n\n")
	}

	scriptBuilder.WriteString("exit 0\n")
	return scriptBuilder.String()
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\"'\"'") + "'"
}
