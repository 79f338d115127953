package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}

	path := filepath.Join(t.TempDir(), "tool")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func TestRunner_RunInDir(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStdout string
		wantStderr string
		wantCode   int
	}{
		{
			name:       "captures trimmed stdout and stderr",
			body:       "echo '  out  '\necho err >&2\n",
			wantStdout: "out",
			wantStderr: "err",
			wantCode:   0,
		},
		{
			name:       "reports non-zero exit as ExitError",
			body:       "echo failing\nexit 3\n",
			wantStdout: "failing",
			wantCode:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := writeScript(t, tt.body)

			stdout, stderr, err := NewRunner().RunInDir(context.Background(), t.TempDir(), script)

			assert.Equal(t, tt.wantStdout, stdout)
			assert.Equal(t, tt.wantStderr, stderr)
			code, codeErr := ExitCode(err)
			require.NoError(t, codeErr)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestRunner_RunInDir_MissingBinary(t *testing.T) {
	_, _, err := NewRunner().Run(context.Background(), filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)

	var exitErr *ExitError
	assert.False(t, errors.As(err, &exitErr))

	code, codeErr := ExitCode(err)
	assert.Equal(t, -1, code)
	assert.Error(t, codeErr)
}

func TestExitCode(t *testing.T) {
	plain := errors.New("exec: not started")

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  error
	}{
		{
			name:     "nil error is success",
			err:      nil,
			wantCode: 0,
		},
		{
			name:     "exit error carries code",
			err:      &ExitError{Name: "ruff", Code: 1},
			wantCode: 1,
		},
		{
			name:     "wrapped exit error carries code",
			err:      fmt.Errorf("phase failed: %w", &ExitError{Name: "ruff", Code: 2}),
			wantCode: 2,
		},
		{
			name:     "other errors are passed through",
			err:      plain,
			wantCode: -1,
			wantErr:  plain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := ExitCode(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func TestCombinedOutput(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		stderr string
		want   string
	}{
		{name: "both empty", want: ""},
		{name: "stdout only", stdout: "out", want: "out"},
		{name: "stderr only", stderr: "err", want: "err"},
		{name: "both present", stdout: "out", stderr: "err", want: "out\nerr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CombinedOutput(tt.stdout, tt.stderr))
		})
	}
}

func TestExitError_Error(t *testing.T) {
	err := &ExitError{Name: "tsc", Code: 2}
	assert.Equal(t, "tsc exited with code 2", err.Error())
}
