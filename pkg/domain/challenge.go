package domain

// Challenge is a playable level: an Automaton plus the metadata the
// presentation layer shows around it. Only DFA is consumed by the engine.
type Challenge struct {
	ID          string    `json:"id" yaml:"id" mapstructure:"id"`
	Level       int       `json:"level" yaml:"level" mapstructure:"level"`
	Name        string    `json:"name" yaml:"name" mapstructure:"name"`
	Description string    `json:"description" yaml:"description" mapstructure:"description"`
	Hint        string    `json:"hint,omitempty" yaml:"hint,omitempty" mapstructure:"hint"`
	Examples    []string  `json:"examples" yaml:"examples" mapstructure:"examples"`
	DFA         Automaton `json:"dfa" yaml:"dfa" mapstructure:"-"`
}

// DefaultChallengeID is used when a caller asks for a simulation without naming a challenge.
const DefaultChallengeID = "even_ones"

// EvenOnes returns the built-in level 1 challenge: strings with an even number of 1s.
func EvenOnes() Challenge {
	return Challenge{
		ID:          DefaultChallengeID,
		Level:       1,
		Name:        "Even Ones",
		Description: "Accept strings with an even number of 1s.",
		Hint:        "Track only the parity of the 1s you have seen. Reading a 0 never changes it.",
		Examples:    []string{"00", "11", "0110"},
		DFA: Automaton{
			States:   []string{"q0", "q1"},
			Alphabet: []string{"0", "1"},
			Transitions: map[string]map[string]string{
				"q0": {"0": "q0", "1": "q1"},
				"q1": {"0": "q1", "1": "q0"},
			},
			StartState:  "q0",
			FinalStates: []string{"q0"},
			Labels: map[string]string{
				"q0": "Even 1s",
				"q1": "Odd 1s",
			},
		},
	}
}
