// Package typecheck runs the typescript compiler against a single file.
package typecheck

import (
	"errors"

	"github.com/michael-freling/claude-code-quality-gate/internal/command"
	"github.com/michael-freling/claude-code-quality-gate/internal/rules"
)

const (
	// DefaultTool is looked up in PATH when no configured path exists.
	DefaultTool = "tsc"
	// DefaultConfigFile marks a project that configures the compiler itself.
	DefaultConfigFile = "tsconfig.json"
)

var (
	// DefaultExecutablePaths are probed in order, relative to the working directory.
	DefaultExecutablePaths = []string{"node_modules/.bin/tsc", "node_modules/typescript/bin/tsc"}
	// DefaultFallbackOptions are passed when the project has no compiler configuration.
	DefaultFallbackOptions = []string{"--strict", "--esModuleInterop", "--skipLibCheck", "--target", "ES2020", "--module", "commonjs"}

	// ErrToolNotFound means no compiler could be resolved.
	ErrToolNotFound = errors.New("tool not found")
)

// Invocation is how the compiler is run for one file.
type Invocation struct {
	ExecutablePath string
	Args           []string
	Fallback       bool
}

// resolve picks the compiler and its arguments for filePath. The project's
// configuration is trusted when it exists in workDir.
func resolve(runner command.Runner, workDir string, ruleSet *rules.LanguageRuleSet, filePath string) (*Invocation, error) {
	typeChecking := ruleSet.TypeCheckingOrEmpty()

	executable, found := command.FindExecutable(
		runner,
		workDir,
		rules.ListOr(typeChecking.ExecutablePaths, DefaultExecutablePaths),
		rules.StringOr(typeChecking.Tool, DefaultTool),
	)
	if !found {
		return nil, ErrToolNotFound
	}

	configFile := rules.StringOr(typeChecking.ConfigFile, DefaultConfigFile)
	invocation := &Invocation{
		ExecutablePath: executable.Path,
		Args:           []string{"--noEmit"},
		Fallback:       !command.FileExists(command.ResolvePath(workDir, configFile)),
	}
	if invocation.Fallback {
		invocation.Args = append(invocation.Args, rules.ListOr(typeChecking.FallbackOptions, DefaultFallbackOptions)...)
	}
	invocation.Args = append(invocation.Args, filePath)
	return invocation, nil
}
