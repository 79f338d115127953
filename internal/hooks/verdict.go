package hooks

const (
	// ExitCodeAllow tells the host there is no objection.
	ExitCodeAllow = 0
	// ExitCodeBlock tells the host to block and relay stderr to the agent.
	ExitCodeBlock = 2
)

// Decision is the outcome class of a verdict.
type Decision int

const (
	// DecisionSkip means the check did not apply or could not run.
	DecisionSkip Decision = iota
	// DecisionPass means the check ran and found nothing.
	DecisionPass
	// DecisionBlock means the check found a policy violation.
	DecisionBlock
)

func (d Decision) String() string {
	switch d {
	case DecisionPass:
		return "pass"
	case DecisionBlock:
		return "block"
	default:
		return "skip"
	}
}

// Verdict is the final (exit code, message) of one check.
type Verdict struct {
	// Decision classifies the outcome.
	Decision Decision

	// Message is written to stderr for blocking verdicts and to stdout otherwise.
	Message string

	// CheckerName identifies which checker produced this verdict.
	CheckerName string
}

// NewSkipVerdict creates a verdict for a check that did not apply.
func NewSkipVerdict(checkerName, message string) *Verdict {
	return &Verdict{
		Decision:    DecisionSkip,
		Message:     message,
		CheckerName: checkerName,
	}
}

// NewPassVerdict creates a verdict for a clean file.
func NewPassVerdict(checkerName, message string) *Verdict {
	return &Verdict{
		Decision:    DecisionPass,
		Message:     message,
		CheckerName: checkerName,
	}
}

// NewBlockVerdict creates a verdict that blocks with the given diagnostic.
func NewBlockVerdict(checkerName, message string) *Verdict {
	return &Verdict{
		Decision:    DecisionBlock,
		Message:     message,
		CheckerName: checkerName,
	}
}

// Blocked reports whether the verdict blocks.
func (v *Verdict) Blocked() bool {
	return v.Decision == DecisionBlock
}

// ExitCode maps the verdict onto the host's exit code protocol.
func (v *Verdict) ExitCode() int {
	if v.Blocked() {
		return ExitCodeBlock
	}
	return ExitCodeAllow
}
