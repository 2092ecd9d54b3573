package domain

// Automaton is the declarative description of a deterministic finite automaton.
// It is treated as read-only once built: nothing in this module mutates a definition
// after it has been handed to the engine.
//
// The structural invariants (start and final states are members of States, every
// transition target is a state, every symbol key belongs to Alphabet) are the
// author's responsibility. They are not checked here; see runtime.Validate.
type Automaton struct {
	States      []string                     `json:"states" yaml:"states" mapstructure:"states"`
	Alphabet    []string                     `json:"alphabet" yaml:"alphabet" mapstructure:"alphabet"`
	Transitions map[string]map[string]string `json:"transitions" yaml:"transitions" mapstructure:"transitions"`
	StartState  string                       `json:"start_state" yaml:"start_state" mapstructure:"start_state"`
	FinalStates []string                     `json:"final_states" yaml:"final_states" mapstructure:"final_states"`

	// Labels annotates states for display. It has no effect on execution.
	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty" mapstructure:"labels"`
}

// HasSymbol reports whether symbol is part of the declared alphabet.
func (a *Automaton) HasSymbol(symbol string) bool {
	for _, s := range a.Alphabet {
		if s == symbol {
			return true
		}
	}
	return false
}

// Target looks up the transition for (state, symbol).
// A missing row and a missing entry are both reported as undefined.
func (a *Automaton) Target(state, symbol string) (string, bool) {
	row, ok := a.Transitions[state]
	if !ok {
		return "", false
	}
	next, ok := row[symbol]
	if !ok || next == "" {
		return "", false
	}
	return next, true
}

// IsFinal reports whether state is an accepting state.
func (a *Automaton) IsFinal(state string) bool {
	for _, s := range a.FinalStates {
		if s == state {
			return true
		}
	}
	return false
}

// HasState reports whether state is declared in States.
func (a *Automaton) HasState(state string) bool {
	for _, s := range a.States {
		if s == state {
			return true
		}
	}
	return false
}

// Label returns the display annotation of a state, or "" if none.
func (a *Automaton) Label(state string) string {
	return a.Labels[state]
}
