/*
Package session implements the player-side bookkeeping of the Regex Runner.

A session tracks the active challenge and a cumulative score that grows by
domain.ScorePerAccept on every accepted run. The Manager serializes updates per
session with reference-counted local locks and, optionally, a distributed
locker so several server replicas can share one store.
*/
package session
