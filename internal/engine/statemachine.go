package engine

import "fmt"

// Phase is one stage of a single execute(sql) call's lifecycle.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseParsed   Phase = "parsed"
	PhaseResolved Phase = "resolved"
	PhaseExecuted Phase = "executed"
)

// validTransitions enumerates every legal phase transition. An error at any
// point returns the call to PhaseIdle rather than advancing.
var validTransitions = map[Phase][]Phase{
	PhaseIdle:     {PhaseParsed, PhaseIdle},
	PhaseParsed:   {PhaseResolved, PhaseIdle},
	PhaseResolved: {PhaseExecuted, PhaseIdle},
	PhaseExecuted: {PhaseIdle},
}

// TerminalPhases are phases from which a run cannot advance further except
// back to idle for the next call.
var TerminalPhases = map[Phase]bool{
	PhaseExecuted: true,
}

// TransitionError reports an illegal phase transition.
type TransitionError struct {
	From Phase
	To   Phase
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid execute phase transition from %s to %s", e.From, e.To)
}

// CanTransition reports whether moving from one phase to another is legal.
func CanTransition(from, to Phase) bool {
	for _, target := range validTransitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// run tracks one execute(sql) call's progress through the phase sequence.
// A failed call is reset to idle by abort; a successful one ends at
// executed.
type run struct {
	phase Phase
}

func newRun() *run {
	return &run{phase: PhaseIdle}
}

// advance attempts a transition, returning a *TransitionError if illegal.
func (r *run) advance(to Phase) error {
	if !CanTransition(r.phase, to) {
		return &TransitionError{From: r.phase, To: to}
	}
	r.phase = to
	return nil
}

// abort resets the run to idle; called on any failure path so a partial
// parse/resolve never looks like progress to the next call.
func (r *run) abort() {
	r.phase = PhaseIdle
}
