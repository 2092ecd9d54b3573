package domain

import (
	"fmt"
	"strings"
)

// Outcome classifies how a run ended.
type Outcome string

const (
	OutcomeAccepted            Outcome = "accepted"
	OutcomeRejected            Outcome = "rejected"
	OutcomeInvalidSymbol       Outcome = "invalid_symbol"       // input symbol outside the alphabet
	OutcomeUndefinedTransition Outcome = "undefined_transition" // no entry for (state, symbol)
)

// Standard verdict messages.
const (
	MessageAccepted = "Accepted"
	MessageRejected = "Rejected"
)

// TraceSeparator joins trace states for display.
const TraceSeparator = " → "

// Result is the value produced by a single run of an Automaton over an input string.
type Result struct {
	// Accepted is true iff the whole input was consumed and the run halted in a final state.
	Accepted bool `json:"accepted"`

	// Trace starts with the start state and gains one state per consumed symbol.
	// On failure it stops at the last state reached before the failing symbol.
	Trace []string `json:"trace"`

	// Message is the human readable verdict.
	Message string `json:"message"`

	Outcome  Outcome `json:"outcome,omitempty"`
	Consumed int     `json:"consumed"` // Number of input symbols consumed
}

// InvalidSymbolMessage formats the message for a symbol outside the alphabet.
func InvalidSymbolMessage(symbol string) string {
	return fmt.Sprintf("Invalid symbol: %s", symbol)
}

// NoTransitionMessage formats the message for an undefined transition.
func NoTransitionMessage(state, symbol string) string {
	return fmt.Sprintf("No transition from %s on %s", state, symbol)
}

// Failed reports whether the run halted before consuming the whole input.
func (r Result) Failed() bool {
	return r.Outcome == OutcomeInvalidSymbol || r.Outcome == OutcomeUndefinedTransition
}

// FinalState returns the last state of the trace, or "" for an empty trace.
func (r Result) FinalState() string {
	if len(r.Trace) == 0 {
		return ""
	}
	return r.Trace[len(r.Trace)-1]
}

// TraceString renders the trace as "q0 → q1 → q0".
func (r Result) TraceString() string {
	return strings.Join(r.Trace, TraceSeparator)
}

// Summary renders the verdict line shown to players, e.g. "Accepted • Trace: q0 → q0".
func (r Result) Summary() string {
	msg := r.Message
	if r.Accepted {
		msg = MessageAccepted
	}
	return fmt.Sprintf("%s • Trace: %s", msg, r.TraceString())
}
