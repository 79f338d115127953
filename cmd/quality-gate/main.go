package main

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/michael-freling/claude-code-quality-gate/internal/command"
	"github.com/michael-freling/claude-code-quality-gate/internal/config"
	"github.com/michael-freling/claude-code-quality-gate/internal/hooks"
	"github.com/michael-freling/claude-code-quality-gate/internal/logging"
	"github.com/michael-freling/claude-code-quality-gate/internal/pipeline"
	"github.com/michael-freling/claude-code-quality-gate/internal/rules"
	"github.com/michael-freling/claude-code-quality-gate/internal/scanner"
	"github.com/michael-freling/claude-code-quality-gate/internal/todolist"
	"github.com/michael-freling/claude-code-quality-gate/internal/typecheck"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	os.Exit(execute(newApp().rootCmd()))
}

// exitCodeError carries a hook exit code out of a command.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// execute runs the command tree and maps the outcome to a process exit code.
func execute(rootCmd *cobra.Command) int {
	err := rootCmd.Execute()
	if err == nil {
		return hooks.ExitCodeAllow
	}

	var exitErr *exitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	return 1
}

type app struct {
	configPath string
	rulesDir   string
	logFile    string
	verbose    bool

	// runner and workDir are replaced in tests.
	runner  command.Runner
	workDir string
	lockDir string
}

func newApp() *app {
	return &app{}
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "claude-quality-gate",
		Short: "Quality gate hooks for Claude Code file edits",
		Long: `A CLI tool that runs after Claude Code edits a file. It reads the PostToolUse event from stdin,
runs the checks configured for the file's language and exits with code 2 when the edit violates a policy.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "settings file (default "+config.DefaultSettingsPath+")")
	flags.StringVar(&a.rulesDir, "rules-dir", "", "directory holding the per-language rule documents")
	flags.StringVar(&a.logFile, "log-file", "", "write diagnostic logs to this file")
	flags.BoolVar(&a.verbose, "verbose", false, "log at debug level")

	rootCmd.AddCommand(
		a.newHookCmd("post-tool-use", "Run every check that applies to the edited file", nil),
		a.newHookCmd(pipeline.CheckerName, "Lint, auto-fix and format an edited python file", []string{pipeline.CheckerName}),
		a.newHookCmd(scanner.CheckerName, "Report 'any' type usage in an edited typescript file", []string{scanner.CheckerName}),
		a.newHookCmd(typecheck.CheckerName, "Type check an edited typescript file", []string{typecheck.CheckerName}),
		a.newHookCmd(todolist.CheckerName, "Validate an edited "+todolist.TargetFileName, []string{todolist.CheckerName}),
		a.newRulesCmd(),
	)

	return rootCmd
}

// newHookCmd creates a command evaluating the stdin event with the named
// checkers, or with every checker when names is empty.
func (a *app) newHookCmd(use, short string, names []string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  short + `. Reads the PostToolUse event as JSON from stdin. Returns exit code 0 to allow, exit code 2 to block.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runHook(cmd, names)
		},
	}
}

// runHook never fails the host because of its own faults: errors and panics
// are reported on stderr and the edit is allowed.
func (a *app) runHook(cmd *cobra.Command, names []string) (err error) {
	name := cmd.Name()
	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "\n[%s]\n", name)

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "[%s] Error: %v\n", name, r)
			err = nil
		}
	}()

	cfg, logger := a.loadConfig(cmd)
	defer func() {
		_ = logger.Sync()
	}()

	store := rules.NewStore(cfg.RulesDir, rules.NewState(), logger)
	checkers, err := a.newCheckers(cfg, store, logger, names)
	if err != nil {
		fmt.Fprintf(stderr, "[%s] Error: %v\n", name, err)
		return nil
	}

	engine := hooks.NewEngine(store, logger, checkers...)
	verdict, err := engine.Run(cmd.Context(), cmd.InOrStdin())
	if err != nil {
		logger.Error("evaluation failed", zap.Error(err))
		fmt.Fprintf(stderr, "[%s] Error: %v\n", name, err)
		return nil
	}

	logger.Info("verdict",
		zap.String("checker", verdict.CheckerName),
		zap.Stringer("decision", verdict.Decision))

	if verdict.Blocked() {
		fmt.Fprintln(stderr, verdict.Message)
		return &exitCodeError{code: verdict.ExitCode()}
	}
	if verdict.Message != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", name, verdict.Message)
	}
	return nil
}

// loadConfig layers the settings file, the environment and the flags.
// A broken settings file or log file is reported and replaced by defaults.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, *zap.Logger) {
	stderr := cmd.ErrOrStderr()

	cfg, err := config.Load(a.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "[%s] Error: %v\n", cmd.Name(), err)
	}

	flags := cmd.Flags()
	if flags.Changed("rules-dir") {
		cfg.RulesDir = a.rulesDir
	}
	if flags.Changed("log-file") {
		cfg.LogFile = a.logFile
	}
	if flags.Changed("verbose") {
		cfg.Verbose = a.verbose
	}

	logger, err := logging.New(cfg.LogFile, cfg.Verbose)
	if err != nil {
		fmt.Fprintf(stderr, "[%s] Error: %v\n", cmd.Name(), err)
		logger = zap.NewNop()
	}
	return cfg, logger
}

// newCheckers builds the named checkers in dispatch order, or all of them
// when names is empty. Disabled checkers are left out.
func (a *app) newCheckers(cfg *config.Config, store *rules.Store, logger *zap.Logger, names []string) ([]hooks.Checker, error) {
	runner := a.runner
	if runner == nil {
		runner = command.NewRunner()
	}
	workDir := a.workDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		workDir = wd
	}
	cache, err := scanner.NewPatternCache(scanner.DefaultPatternCacheSize)
	if err != nil {
		return nil, err
	}

	all := []hooks.Checker{
		pipeline.NewChecker(store, runner, workDir, a.lockDir, logger),
		scanner.NewChecker(store, cache, logger),
		typecheck.NewChecker(store, runner, workDir, logger),
		todolist.NewChecker(workDir, logger),
	}

	var selected []hooks.Checker
	for _, checker := range all {
		if len(names) > 0 && !slices.Contains(names, checker.Name()) {
			continue
		}
		if cfg.IsDisabled(checker.Name()) {
			logger.Debug("checker disabled", zap.String("checker", checker.Name()))
			continue
		}
		selected = append(selected, checker)
	}
	return selected, nil
}
