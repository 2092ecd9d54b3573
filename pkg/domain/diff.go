package domain

// SessionDiff represents the changes between two snapshots of a session.
// It is designed to be serialized to JSON for partial updates on the client.
type SessionDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	ChallengeID *string `json:"challenge_id,omitempty"`
	Score       *int    `json:"score,omitempty"`
	Runs        *int    `json:"runs,omitempty"`

	// Appended contains only the runs added since the old snapshot.
	Appended []RunRecord `json:"appended,omitempty"`
}

// Diff calculates the difference between oldSess and newSess.
// If oldSess is nil, it returns a diff representing the entire newSess (initial load).
// It returns nil when nothing changed.
func Diff(oldSess, newSess *Session) *SessionDiff {
	if newSess == nil {
		return nil
	}

	diff := &SessionDiff{SessionID: newSess.ID}

	if oldSess == nil || oldSess.ChallengeID != newSess.ChallengeID {
		diff.ChallengeID = &newSess.ChallengeID
	}
	if oldSess == nil || oldSess.Score != newSess.Score {
		diff.Score = &newSess.Score
	}
	if oldSess == nil || oldSess.Runs != newSess.Runs {
		diff.Runs = &newSess.Runs
	}
	diff.Appended = diffHistory(oldSess, newSess)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// diffHistory assumes append-only history.
func diffHistory(old, new *Session) []RunRecord {
	if len(new.History) == 0 {
		return nil
	}
	if old == nil {
		return new.History
	}
	if len(new.History) > len(old.History) {
		return new.History[len(old.History):]
	}
	return nil
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SessionDiff) IsEmpty() bool {
	return d.ChallengeID == nil &&
		d.Score == nil &&
		d.Runs == nil &&
		len(d.Appended) == 0
}
