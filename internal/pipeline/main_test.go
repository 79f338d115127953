package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/michael-freling/claude-code-quality-gate/internal/command"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func toAny(args []string) []any {
	result := make([]any, 0, len(args))
	for _, arg := range args {
		result = append(result, arg)
	}
	return result
}

// expectRun registers one tool invocation with the given outcome.
func expectRun(m *command.MockRunner, dir, exe string, args []string, stdout string, exitCode int) *gomock.Call {
	var err error
	if exitCode != 0 {
		err = &command.ExitError{Name: exe, Code: exitCode}
	}
	return m.EXPECT().
		RunInDir(gomock.Any(), dir, exe, toAny(args)...).
		Return(stdout, "", err)
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()

	for _, name := range names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0755))
	}
}
