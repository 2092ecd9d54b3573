/*
Package runtime implements the DFA execution core.

Run is a pure function: it consumes an input string one symbol at a time against
a read-only Automaton and returns the trace of visited states and a verdict.
Engine wraps Run with lifecycle hooks and logging for hosts that want them.
Neither holds state between runs, so both are safe for concurrent use.
*/
package runtime
