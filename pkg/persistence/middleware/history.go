package middleware

import (
	"context"

	"github.com/aretw0/regexrunner/pkg/domain"
	"github.com/aretw0/regexrunner/pkg/ports"
)

// DefaultHistoryLimit is how many runs the CLI keeps per session.
const DefaultHistoryLimit = 100

type historyLimitMiddleware struct {
	next ports.SessionStore
	max  int
}

// NewHistoryLimitMiddleware keeps only the most recent max runs of a session's
// history on Save. Score and run count are left untouched. max <= 0 disables it.
func NewHistoryLimitMiddleware(max int) Middleware {
	return func(next ports.SessionStore) ports.SessionStore {
		if max <= 0 {
			return next
		}
		return &historyLimitMiddleware{next: next, max: max}
	}
}

func (m *historyLimitMiddleware) Save(ctx context.Context, sess *domain.Session) error {
	if len(sess.History) <= m.max {
		return m.next.Save(ctx, sess)
	}
	trimmed := *sess
	trimmed.History = sess.History[len(sess.History)-m.max:]
	return m.next.Save(ctx, &trimmed)
}

func (m *historyLimitMiddleware) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *historyLimitMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *historyLimitMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
