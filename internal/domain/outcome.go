package domain

// OutcomeKind names the result of one poll cycle.
type OutcomeKind string

const (
	OutcomeNoChange      OutcomeKind = "no-change"
	OutcomeChanged       OutcomeKind = "changed"
	OutcomeProbeFailed   OutcomeKind = "probe-failed"
	OutcomeTriggerFailed OutcomeKind = "trigger-failed"
	OutcomeStoreFailed   OutcomeKind = "store-failed"
	OutcomeSkipped       OutcomeKind = "skipped"
)

// PollOutcome is the transient result of one cycle. It is never persisted;
// it exists for logging and tests.
type PollOutcome struct {
	Kind      OutcomeKind
	OldCommit string // empty on first observation
	NewCommit string
	Reason    string // set for skipped cycles
	Err       error  // set for failed cycles
}

func NoChange(commit string) PollOutcome {
	return PollOutcome{Kind: OutcomeNoChange, OldCommit: commit, NewCommit: commit}
}

func Changed(old, new string) PollOutcome {
	return PollOutcome{Kind: OutcomeChanged, OldCommit: old, NewCommit: new}
}

func ProbeFailed(err error) PollOutcome {
	return PollOutcome{Kind: OutcomeProbeFailed, Err: err}
}

func TriggerFailed(old, new string, err error) PollOutcome {
	return PollOutcome{Kind: OutcomeTriggerFailed, OldCommit: old, NewCommit: new, Err: err}
}

func StoreFailed(old, new string, err error) PollOutcome {
	return PollOutcome{Kind: OutcomeStoreFailed, OldCommit: old, NewCommit: new, Err: err}
}

func Skipped(reason string) PollOutcome {
	return PollOutcome{Kind: OutcomeSkipped, Reason: reason}
}
