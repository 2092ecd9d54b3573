package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/regexrunner/pkg/domain"
)

// Loader implements ports.ChallengeLoader using an in-memory map.
// Safe for concurrent use.
type Loader struct {
	mu         sync.RWMutex
	challenges map[string]domain.Challenge
}

// NewLoader creates a loader holding the given challenges.
// Duplicate or empty IDs are rejected.
func NewLoader(challenges ...domain.Challenge) (*Loader, error) {
	l := &Loader{challenges: make(map[string]domain.Challenge, len(challenges))}
	for _, c := range challenges {
		if err := l.Add(c); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// NewDefaultLoader returns a loader with the built-in challenge pack.
func NewDefaultLoader() *Loader {
	l, _ := NewLoader(domain.EvenOnes())
	return l
}

// Add registers a challenge.
func (l *Loader) Add(c domain.Challenge) error {
	if c.ID == "" {
		return fmt.Errorf("challenge missing ID")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.challenges[c.ID]; exists {
		return fmt.Errorf("duplicate challenge ID: %s", c.ID)
	}
	l.challenges[c.ID] = c
	return nil
}

// GetChallenge retrieves a challenge by ID.
func (l *Loader) GetChallenge(id string) (domain.Challenge, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.challenges[id]
	if !ok {
		return domain.Challenge{}, fmt.Errorf("%w: %s", domain.ErrChallengeNotFound, id)
	}
	return c, nil
}

// ListChallenges returns all challenges ordered by level then ID.
func (l *Loader) ListChallenges() ([]domain.Challenge, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	list := make([]domain.Challenge, 0, len(l.challenges))
	for _, c := range l.challenges {
		list = append(list, c)
	}
	SortChallenges(list)
	return list, nil
}

// SortChallenges orders challenges by level then ID (deterministic order).
func SortChallenges(list []domain.Challenge) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Level != list[j].Level {
			return list[i].Level < list[j].Level
		}
		return list[i].ID < list[j].ID
	})
}
