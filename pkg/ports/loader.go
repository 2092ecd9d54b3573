package ports

import (
	"context"

	"github.com/aretw0/regexrunner/pkg/domain"
)

// ChallengeLoader defines how the host retrieves challenge definitions.
type ChallengeLoader interface {
	// GetChallenge returns the challenge with the given ID.
	// It returns domain.ErrChallengeNotFound (possibly wrapped) if there is none.
	GetChallenge(id string) (domain.Challenge, error)

	// ListChallenges returns every challenge, ordered by level then ID.
	ListChallenges() ([]domain.Challenge, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used for hot-reload in development.
type Watchable interface {
	// Watch returns a channel that receives the name of each changed source.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
