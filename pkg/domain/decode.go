package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// rawAutomaton mirrors Automaton but accepts both key spellings used by
// authored definitions and API payloads (start_state / startState).
type rawAutomaton struct {
	States         []string                     `mapstructure:"states"`
	Alphabet       []string                     `mapstructure:"alphabet"`
	Transitions    map[string]map[string]string `mapstructure:"transitions"`
	StartState     string                       `mapstructure:"start_state"`
	StartStateAlt  string                       `mapstructure:"startState"`
	FinalStates    []string                     `mapstructure:"final_states"`
	FinalStatesAlt []string                     `mapstructure:"finalStates"`
	Labels         map[string]string            `mapstructure:"labels"`
}

// AutomatonFromMap decodes a loosely typed document (JSON or YAML) into an Automaton.
// Scalars are weakly typed, so an alphabet written as [0, 1] decodes to "0" and "1".
// No structural validation is performed.
func AutomatonFromMap(data map[string]any) (Automaton, error) {
	var raw rawAutomaton
	if err := weakDecode(data, &raw); err != nil {
		return Automaton{}, fmt.Errorf("failed to decode automaton: %w", err)
	}

	a := Automaton{
		States:      raw.States,
		Alphabet:    raw.Alphabet,
		Transitions: raw.Transitions,
		StartState:  raw.StartState,
		FinalStates: raw.FinalStates,
		Labels:      raw.Labels,
	}
	if a.StartState == "" {
		a.StartState = raw.StartStateAlt
	}
	if len(a.FinalStates) == 0 {
		a.FinalStates = raw.FinalStatesAlt
	}
	if a.Transitions == nil {
		a.Transitions = map[string]map[string]string{}
	}
	return a, nil
}

// ChallengeFromMap decodes a challenge document. The automaton lives under "dfa".
func ChallengeFromMap(data map[string]any) (Challenge, error) {
	var c Challenge
	if err := weakDecode(data, &c); err != nil {
		return Challenge{}, fmt.Errorf("failed to decode challenge: %w", err)
	}

	rawDFA, ok := data["dfa"]
	if !ok {
		return Challenge{}, fmt.Errorf("challenge %q: missing dfa", c.ID)
	}
	dfaMap, err := toStringMap(rawDFA)
	if err != nil {
		return Challenge{}, fmt.Errorf("challenge %q: %w", c.ID, err)
	}
	c.DFA, err = AutomatonFromMap(dfaMap)
	if err != nil {
		return Challenge{}, fmt.Errorf("challenge %q: %w", c.ID, err)
	}
	return c, nil
}

func weakDecode(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

func toStringMap(v any) (map[string]any, error) {
	switch m := v.(type) {
	case map[string]any:
		return m, nil
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, nil
	default:
		return nil, fmt.Errorf("dfa must be a mapping, got %T", v)
	}
}
