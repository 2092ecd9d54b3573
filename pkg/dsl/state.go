package dsl

// StateBuilder provides a fluent API for configuring a state.
type StateBuilder struct {
	id          string
	label       string
	final       bool
	transitions map[string]string
	builder     *Builder
}

// Label attaches a human-readable description to the state.
func (s *StateBuilder) Label(label string) *StateBuilder {
	s.label = label
	return s
}

// On adds the transition (state, symbol) -> target. A later call for the same
// symbol overwrites the earlier one.
func (s *StateBuilder) On(symbol, target string) *StateBuilder {
	s.transitions[symbol] = target
	s.builder.useSymbol(symbol)
	return s
}

// Loop adds self-transitions for every given symbol.
func (s *StateBuilder) Loop(symbols ...string) *StateBuilder {
	for _, sym := range symbols {
		s.On(sym, s.id)
	}
	return s
}

// Accept marks the state as final.
func (s *StateBuilder) Accept() *StateBuilder {
	s.final = true
	return s
}

// Add declares another state, so definitions can be chained.
func (s *StateBuilder) Add(id string) *StateBuilder {
	return s.builder.Add(id)
}
