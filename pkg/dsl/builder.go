package dsl

import (
	"fmt"

	"github.com/aretw0/regexrunner/internal/runtime"
	"github.com/aretw0/regexrunner/pkg/adapters/memory"
	"github.com/aretw0/regexrunner/pkg/domain"
)

// Builder manages the automaton construction.
type Builder struct {
	start    string
	alphabet []string
	explicit bool
	order    []string
	states   map[string]*StateBuilder
}

// New creates a new builder whose start state is start.
func New(start string) *Builder {
	return &Builder{
		start:  start,
		states: make(map[string]*StateBuilder),
	}
}

// Alphabet fixes the input alphabet and its order.
// Without it, the alphabet is inferred from the symbols used in On, in first-use order.
func (b *Builder) Alphabet(symbols ...string) *Builder {
	b.alphabet = append([]string(nil), symbols...)
	b.explicit = true
	return b
}

// Add declares a state. If the state already exists, it returns the existing builder.
func (b *Builder) Add(id string) *StateBuilder {
	if sb, ok := b.states[id]; ok {
		return sb
	}
	sb := &StateBuilder{
		id:          id,
		transitions: make(map[string]string),
		builder:     b,
	}
	b.states[id] = sb
	b.order = append(b.order, id)
	return sb
}

// Build assembles the automaton and checks its structure.
// Missing transitions are allowed; use runtime.Validate for a completeness check.
func (b *Builder) Build() (domain.Automaton, error) {
	def := domain.Automaton{
		States:      append([]string(nil), b.order...),
		Alphabet:    append([]string(nil), b.alphabet...),
		Transitions: make(map[string]map[string]string),
		StartState:  b.start,
	}

	for _, id := range b.order {
		sb := b.states[id]
		if len(sb.transitions) > 0 {
			row := make(map[string]string, len(sb.transitions))
			for sym, target := range sb.transitions {
				row[sym] = target
			}
			def.Transitions[id] = row
		}
		if sb.final {
			def.FinalStates = append(def.FinalStates, id)
		}
		if sb.label != "" {
			if def.Labels == nil {
				def.Labels = make(map[string]string)
			}
			def.Labels[id] = sb.label
		}
	}

	if err := runtime.ValidateStructure(&def); err != nil {
		return domain.Automaton{}, fmt.Errorf("failed to build automaton: %w", err)
	}
	return def, nil
}

// BuildChallenge wraps the automaton in the given challenge metadata and
// serves it from an in-memory loader.
func (b *Builder) BuildChallenge(meta domain.Challenge) (*memory.Loader, error) {
	def, err := b.Build()
	if err != nil {
		return nil, err
	}
	meta.DFA = def

	loader, err := memory.NewLoader(meta)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return loader, nil
}

func (b *Builder) useSymbol(symbol string) {
	if b.explicit {
		return
	}
	for _, s := range b.alphabet {
		if s == symbol {
			return
		}
	}
	b.alphabet = append(b.alphabet, symbol)
}
