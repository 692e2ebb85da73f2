package sqlitedb

// State is the lifecycle phase of a Statement.
type State int

const (
	// StatePrepared - compiled and ready for binding and its first step.
	StatePrepared State = iota
	// StateHasRow - the last step loaded a row; columns can be read.
	StateHasRow
	// StateDone - the last step exhausted the result set.
	StateDone
	// StateInvalid - compilation or a step failed; only Finalize is meaningful.
	StateInvalid
	// StateFinalized - terminal, engine resources released.
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StatePrepared:
		return "Prepared"
	case StateHasRow:
		return "HasRow"
	case StateDone:
		return "Done"
	case StateInvalid:
		return "Invalid"
	case StateFinalized:
		return "Finalized"
	default:
		return "Unknown"
	}
}

// hasHandle reports whether the phase owns a live engine handle.
func (s State) hasHandle() bool {
	return s == StatePrepared || s == StateHasRow || s == StateDone
}

// StepResult is the outcome of advancing a Statement by one step.
type StepResult int

const (
	// Failed - the step did not complete; an error is always returned alongside.
	Failed StepResult = iota
	// RowAvailable - a row is loaded and its columns can be read.
	RowAvailable
	// Exhausted - the statement ran to completion, no row is loaded.
	Exhausted
)

func (r StepResult) String() string {
	switch r {
	case RowAvailable:
		return "RowAvailable"
	case Exhausted:
		return "Exhausted"
	default:
		return "Failed"
	}
}
