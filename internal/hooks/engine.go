package hooks

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/michael-freling/claude-code-quality-gate/internal/command"
	"github.com/michael-freling/claude-code-quality-gate/internal/rules"
	"go.uber.org/zap"
)

// checkEngine dispatches an edit event to the checkers that apply to it.
type checkEngine struct {
	checkers []Checker
	store    *rules.Store
	logger   *zap.Logger
}

// NewEngine creates a new engine with the given checkers.
// Checkers run in the given order.
func NewEngine(store *rules.Store, logger *zap.Logger, checkers ...Checker) *checkEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &checkEngine{
		checkers: checkers,
		store:    store,
		logger:   logger,
	}
}

// Run parses an event from reader and evaluates it.
// Unparseable input is not an error: there is simply nothing to check.
func (e *checkEngine) Run(ctx context.Context, reader io.Reader) (*Verdict, error) {
	event, err := ParseHookEvent(reader)
	if err != nil {
		e.logger.Debug("ignoring unparseable event", zap.Error(err))
		return NewSkipVerdict("", "Skipping: no valid file path provided"), nil
	}
	return e.Evaluate(ctx, event)
}

// Evaluate runs every applicable checker against the event's file.
// Returns the first blocking verdict, or a non-blocking verdict if no checker blocks.
func (e *checkEngine) Evaluate(ctx context.Context, event *HookEvent) (*Verdict, error) {
	if event == nil {
		return nil, fmt.Errorf("event cannot be nil")
	}

	filePath := event.FilePath()
	if filePath == "" {
		return NewSkipVerdict("", "Skipping: no valid file path provided"), nil
	}

	checkers := e.applicable(filePath)
	if len(checkers) == 0 {
		return NewSkipVerdict("", fmt.Sprintf("Skipping: no checker applies to %s", filePath)), nil
	}

	if !command.FileExists(filePath) {
		return NewSkipVerdict("", fmt.Sprintf("Skipping: file does not exist: %s", filePath)), nil
	}

	var (
		messages []string
		passed   bool
	)
	for _, checker := range checkers {
		verdict, err := checker.Check(ctx, filePath)
		if err != nil {
			return nil, fmt.Errorf("checker %s failed: %w", checker.Name(), err)
		}

		e.logger.Info("checker finished",
			zap.String("checker", checker.Name()),
			zap.String("file", filePath),
			zap.Stringer("decision", verdict.Decision))

		if verdict.Blocked() {
			return verdict, nil
		}
		if verdict.Decision == DecisionPass {
			passed = true
		}
		if verdict.Message != "" {
			messages = append(messages, verdict.Message)
		}
	}

	message := strings.Join(messages, "\n")
	if passed {
		return NewPassVerdict(checkers[len(checkers)-1].Name(), message), nil
	}
	return NewSkipVerdict(checkers[len(checkers)-1].Name(), message), nil
}

// applicable returns the checkers covering filePath. When the extension index
// knows the file's language, only that language's checkers and
// language-independent checkers are considered.
func (e *checkEngine) applicable(filePath string) []Checker {
	language, known := "", false
	if e.store != nil {
		language, known = e.store.LanguageFor(filePath)
	}

	var result []Checker
	for _, checker := range e.checkers {
		if known && checker.Language() != "" && checker.Language() != language {
			continue
		}
		if !checker.Accepts(filePath) {
			continue
		}
		result = append(result, checker)
	}
	return result
}
