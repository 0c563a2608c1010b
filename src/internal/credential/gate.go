package credential

import (
	"context"
	"sync"

	"accessgate-svc/src/internal/models"

	"github.com/sirupsen/logrus"
)

// Gate exposes the shared credential only to sessions the session monitor
// reports as active. Render opens the gate for a session, Hide closes it;
// both are idempotent. The credential itself is read fresh on every
// Current call so admin updates propagate mid-session.
type Gate struct {
	repo Repository

	mu      sync.Mutex
	visible map[string]bool
}

func NewGate(repo Repository) *Gate {
	return &Gate{
		repo:    repo,
		visible: make(map[string]bool),
	}
}

func (g *Gate) Render(ctx context.Context, sessionID string) {
	g.mu.Lock()
	g.visible[sessionID] = true
	g.mu.Unlock()

	if _, err := g.repo.Get(ctx); err != nil {
		logrus.WithError(err).Warn("Gate opened but shared credential not available")
	}
}

func (g *Gate) Hide(sessionID string) {
	g.mu.Lock()
	delete(g.visible, sessionID)
	g.mu.Unlock()
}

// Current returns the shared credential for a session the gate is open
// for, ErrCredentialHidden otherwise.
func (g *Gate) Current(ctx context.Context, sessionID string) (*Credential, error) {
	g.mu.Lock()
	open := g.visible[sessionID]
	g.mu.Unlock()

	if !open {
		return nil, models.ErrCredentialHidden
	}

	return g.repo.Get(ctx)
}
