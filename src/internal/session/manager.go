package session

import (
	"context"
	"sync"

	"accessgate-svc/src/clients"
	"accessgate-svc/src/internal/config"
	"accessgate-svc/src/internal/token"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Manager owns the live session monitors, one per holder. It is the
// single authoritative owner of session state; consumers observe it
// through the monitor it hands out.
type Manager struct {
	store   token.Store
	storage Storage
	gate    Gate
	events  *clients.EventPublisher
	cfg     *config.Configuration

	mu       sync.Mutex
	monitors map[string]*Monitor
}

func NewManager(store token.Store, storage Storage, gate Gate,
	events *clients.EventPublisher, cfg *config.Configuration) *Manager {
	return &Manager{
		store:    store,
		storage:  storage,
		gate:     gate,
		events:   events,
		cfg:      cfg,
		monitors: make(map[string]*Monitor),
	}
}

// Login validates a candidate token and, on success, starts a new
// monitored session and returns its identifier.
func (mgr *Manager) Login(ctx context.Context, candidate string) (string, bool, error) {
	id := primitive.NewObjectID().Hex()
	monitor := mgr.newMonitor(id)

	ok, err := monitor.Login(ctx, candidate)
	if err != nil || !ok {
		return "", ok, err
	}

	mgr.mu.Lock()
	mgr.monitors[id] = monitor
	mgr.mu.Unlock()

	return id, true, nil
}

// Resume restores a session for a holder that still carries a session
// identifier, typically after a restart. An already-live monitor is
// reused; otherwise durable holder storage decides.
func (mgr *Manager) Resume(ctx context.Context, id string) (*Monitor, bool, error) {
	if id == "" {
		return nil, false, nil
	}

	if monitor := mgr.Get(id); monitor != nil {
		return monitor, true, nil
	}

	monitor := mgr.newMonitor(id)
	ok, err := monitor.Resume(ctx)
	if err != nil || !ok {
		return nil, false, err
	}

	mgr.mu.Lock()
	mgr.monitors[id] = monitor
	mgr.mu.Unlock()

	logrus.WithField("session_id", id).Info("Session resumed from holder storage")
	return monitor, true, nil
}

// Get returns the live monitor for the id, or nil. Terminated monitors
// are dropped here so repeated login/logout cycles do not accumulate.
func (mgr *Manager) Get(id string) *Monitor {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	monitor, ok := mgr.monitors[id]
	if !ok {
		return nil
	}
	if monitor.State() == StateTerminated {
		delete(mgr.monitors, id)
		return nil
	}
	return monitor
}

// Touch records holder activity for the session.
func (mgr *Manager) Touch(id string) bool {
	monitor := mgr.Get(id)
	if monitor == nil {
		return false
	}
	monitor.Touch()
	return true
}

// Exit terminates the session on explicit holder request. Exiting an
// unknown or already-terminated session is a no-op.
func (mgr *Manager) Exit(id string) {
	monitor := mgr.Get(id)
	if monitor == nil {
		return
	}
	monitor.Exit()

	mgr.mu.Lock()
	delete(mgr.monitors, id)
	mgr.mu.Unlock()
}

func (mgr *Manager) newMonitor(id string) *Monitor {
	return NewMonitor(id, mgr.store, mgr.storage, mgr.gate, mgr.events, mgr.cfg)
}
