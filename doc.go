/*
Package regexrunner is a deterministic finite automaton (DFA) simulator built for
teaching regular languages as a game.

A challenge pairs an automaton with a description. Players type strings; the
engine consumes them one symbol at a time and reports the trace of visited states
together with an accept or reject verdict.

# Concept

The core is a pure function: given an automaton and an input string it returns a
domain.Result. Invalid symbols and missing transitions halt the run and are
reported in the Result, never as Go errors. Everything around that core (challenge
packs on disk, scored sessions, HTTP, metrics) lives in adapters, following a
Hexagonal Architecture.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/regexrunner"
	)

	func main() {
		// Built-in challenge pack; pass a directory to load YAML/JSON challenges.
		eng, err := regexrunner.New("")
		if err != nil {
			log.Fatal(err)
		}

		res, err := eng.Simulate(context.Background(), "even_ones", "0110")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(res.Summary()) // Accepted • Trace: q0 → q0 → q1 → q0 → q0
	}
*/
package regexrunner
