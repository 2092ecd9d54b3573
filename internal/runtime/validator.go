package runtime

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/aretw0/regexrunner/pkg/domain"
)

// ValidateStructure checks the definition invariants that Run relies on but never enforces:
// a non-empty set of distinct states, a single-character distinct alphabet, start and final
// states that are declared, and a transition table that only mentions declared states and symbols.
//
// It returns nil or a *domain.AggregateError (which matches domain.ErrInvalidDefinition).
func ValidateStructure(def *domain.Automaton) error {
	if def == nil {
		return &domain.AggregateError{Errors: []error{&domain.ValidationError{Reason: "definition is nil"}}}
	}
	return aggregate(structureErrors(def))
}

// Validate runs ValidateStructure and additionally requires the transition
// function to be total: every (state, symbol) pair must have a target.
func Validate(def *domain.Automaton) error {
	if def == nil {
		return ValidateStructure(def)
	}
	errs := structureErrors(def)
	for _, state := range def.States {
		for _, symbol := range def.Alphabet {
			if _, ok := def.Target(state, symbol); !ok {
				errs = append(errs, &domain.ValidationError{
					Reason: fmt.Sprintf("Missing transition: (%s, %s)", state, symbol),
				})
			}
		}
	}
	return aggregate(errs)
}

func structureErrors(def *domain.Automaton) []error {
	var errs []error
	add := func(key, format string, args ...any) {
		errs = append(errs, &domain.ValidationError{Key: key, Reason: fmt.Sprintf(format, args...)})
	}

	if len(def.States) == 0 {
		add("states", "must not be empty")
	}
	seen := make(map[string]bool, len(def.States))
	for _, s := range def.States {
		if seen[s] {
			add("states", "duplicate state %q", s)
		}
		seen[s] = true
	}

	symbols := make(map[string]bool, len(def.Alphabet))
	for _, sym := range def.Alphabet {
		if utf8.RuneCountInString(sym) != 1 {
			add("alphabet", "symbol %q must be a single character", sym)
		}
		if symbols[sym] {
			add("alphabet", "duplicate symbol %q", sym)
		}
		symbols[sym] = true
	}

	if !seen[def.StartState] {
		add("start_state", "%q is not a declared state", def.StartState)
	}
	for _, f := range def.FinalStates {
		if !seen[f] {
			add("final_states", "%q is not a declared state", f)
		}
	}

	// Sorted for stable reports.
	from := make([]string, 0, len(def.Transitions))
	for s := range def.Transitions {
		from = append(from, s)
	}
	sort.Strings(from)

	for _, s := range from {
		if !seen[s] {
			add("transitions", "source %q is not a declared state", s)
		}
		row := def.Transitions[s]
		keys := make([]string, 0, len(row))
		for sym := range row {
			keys = append(keys, sym)
		}
		sort.Strings(keys)
		for _, sym := range keys {
			if !symbols[sym] {
				add("transitions", "(%s, %s): symbol is not in the alphabet", s, sym)
			}
			if target := row[sym]; !seen[target] {
				add("transitions", "(%s, %s): target %q is not a declared state", s, sym, target)
			}
		}
	}
	return errs
}

func aggregate(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &domain.AggregateError{Errors: errs}
}
