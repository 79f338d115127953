package command

//go:generate mockgen -source=runner.go -destination=mock_runner.go -package=command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner abstracts external process execution
type Runner interface {
	// Run executes a command in the current directory
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
	// RunInDir executes a command in a specific directory.
	// A process that ran and exited non-zero is reported as *ExitError.
	RunInDir(ctx context.Context, dir string, name string, args ...string) (stdout string, stderr string, err error)
	// LookPath searches PATH for an executable
	LookPath(file string) (string, error)
}

// ExitError reports a process that ran to completion with a non-zero exit code.
type ExitError struct {
	Name string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Name, e.Code)
}

type runner struct{}

// NewRunner creates a new Runner backed by os/exec
func NewRunner() Runner {
	return &runner{}
}

// Run executes a command and returns stdout, stderr, and error
func (r *runner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	return r.RunInDir(ctx, "", name, args...)
}

// RunInDir executes a command in a specific directory
func (r *runner) RunInDir(ctx context.Context, dir string, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		err = &ExitError{Name: name, Code: exitErr.ExitCode()}
	}
	return strings.TrimSpace(stdout.String()), strings.TrimSpace(stderr.String()), err
}

// LookPath searches PATH for an executable
func (r *runner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// ExitCode converts an error returned by a Runner into a process exit code.
// A nil error is exit code 0. Errors other than *ExitError mean the process
// could not run at all and are returned as-is.
func ExitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, nil
	}
	return -1, err
}

// CombinedOutput joins stdout and stderr of a finished process.
func CombinedOutput(stdout, stderr string) string {
	switch {
	case stdout == "":
		return stderr
	case stderr == "":
		return stdout
	default:
		return stdout + "\n" + stderr
	}
}
