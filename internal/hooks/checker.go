package hooks

import "context"

// Checker evaluates one edited file against a quality policy.
type Checker interface {
	// Name returns the unique identifier for this checker.
	Name() string

	// Description returns a human-readable description of what this checker does.
	Description() string

	// Language returns the rule document language this checker enforces,
	// or an empty string when it is not tied to a language.
	Language() string

	// Accepts reports whether filePath is covered by this checker.
	// It must not touch the file itself.
	Accepts(filePath string) bool

	// Check runs the checker against an existing file.
	// An error means the checker could not run, not that the file is bad.
	Check(ctx context.Context, filePath string) (*Verdict, error)
}
