package domain

import "time"

// ScorePerAccept is the number of points awarded for every accepted run.
const ScorePerAccept = 10

// RunRecord is one scored attempt kept in a session's history.
type RunRecord struct {
	ChallengeID string    `json:"challenge_id"`
	Input       string    `json:"input"`
	Accepted    bool      `json:"accepted"`
	Message     string    `json:"message"`
	Trace       []string  `json:"trace"`
	Points      int       `json:"points"`
	At          time.Time `json:"at"`
}

// Session is the player-side bookkeeping: which challenge is active and the
// cumulative score. The engine never sees it.
type Session struct {
	ID          string      `json:"id"`
	ChallengeID string      `json:"challenge_id"`
	Score       int         `json:"score"`
	Runs        int         `json:"runs"`
	History     []RunRecord `json:"history,omitempty"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewSession creates a fresh session bound to a challenge.
func NewSession(id, challengeID string) *Session {
	return &Session{
		ID:          id,
		ChallengeID: challengeID,
		History:     []RunRecord{},
	}
}

// Record appends a run to the history and returns the points awarded.
func (s *Session) Record(input string, res Result, at time.Time) int {
	points := 0
	if res.Accepted {
		points = ScorePerAccept
	}
	s.Score += points
	s.Runs++
	s.History = append(s.History, RunRecord{
		ChallengeID: s.ChallengeID,
		Input:       input,
		Accepted:    res.Accepted,
		Message:     res.Message,
		Trace:       append([]string(nil), res.Trace...),
		Points:      points,
		At:          at,
	})
	s.UpdatedAt = at
	return points
}

// Snapshot returns a deep copy of the session.
func (s *Session) Snapshot() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	cp.History = make([]RunRecord, len(s.History))
	for i, r := range s.History {
		r.Trace = append([]string(nil), r.Trace...)
		cp.History[i] = r
	}
	return &cp
}
