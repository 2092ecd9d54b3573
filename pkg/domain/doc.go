/*
Package domain contains the core domain models of the Regex Runner simulator.

It defines the declarative description of a deterministic finite automaton, the
result of simulating one input string against it, and the presentation-side
entities (challenges and scored sessions) that wrap those results. This package
is kept pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Automaton: the immutable DFA definition (states, alphabet, transition table, start and final states).
  - Result: the outcome of one run (verdict, trace of visited states, message).
  - Challenge: a named, levelled Automaton with description, hint and example inputs.
  - Session: the score bookkeeping of one player across runs.
*/
package domain
