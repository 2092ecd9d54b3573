/*
Package ports defines the driven ports (interfaces) of the Regex Runner.

These interfaces decouple the engine facade and the presentation layer from
concrete challenge sources and session backends.

# Key Interfaces

  - ChallengeLoader: supplies named automaton definitions (memory, files).
  - SessionStore: persists player sessions and their score.
  - DistributedLocker: coordinates concurrent access to a session across replicas.
*/
package ports
