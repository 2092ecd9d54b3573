/*
Package dsl provides a Go DSL for programmatically constructing automata.

It allows developers to define DFAs using a fluent builder instead of YAML or
JSON files. This is handy for tests, generated challenges, and IDE
autocompletion.

Example usage:

	b := dsl.New("q0")

	b.Add("q0").
		Label("Even 1s").
		On("0", "q0").
		On("1", "q1").
		Accept()

	b.Add("q1").
		Label("Odd 1s").
		On("0", "q1").
		On("1", "q0")

	dfa, err := b.Build()
*/
package dsl
