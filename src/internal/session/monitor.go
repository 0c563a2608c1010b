package session

import (
	"context"
	"sync"
	"time"

	"accessgate-svc/src/clients"
	"accessgate-svc/src/internal/config"
	"accessgate-svc/src/internal/models"
	"accessgate-svc/src/internal/token"

	"github.com/sirupsen/logrus"
)

// Gate is the credential gate contract: Render is invoked when a session
// becomes active, Hide when it terminates. The gate owns the credential;
// the monitor only signals transitions.
type Gate interface {
	Render(ctx context.Context, sessionID string)
	Hide(sessionID string)
}

// Monitor drives one holder's session state machine:
// Unauthenticated -> Active -> Terminated. Terminated is absorbing.
//
// Three triggers feed termination: the continuous validator reporting the
// bound token invalid, the expiry policy alarm, and an explicit exit.
// Duplicate or out-of-order triggers are no-ops once terminated.
type Monitor struct {
	id             string
	store          token.Store
	validator      *token.Validator
	storage        Storage
	gate           Gate
	events         *clients.EventPublisher
	tokenCfg       *config.TokenConfig
	policy         Policy
	idleWindow     time.Duration
	absoluteWindow time.Duration
	now            func() time.Time

	mu           sync.Mutex
	state        State
	activeToken  string
	loginTime    time.Time
	lastActivity time.Time
	watcher      *token.Watcher
	stopWatch    func()
	alarm        *time.Timer
}

func NewMonitor(id string, store token.Store, storage Storage, gate Gate,
	events *clients.EventPublisher, cfg *config.Configuration) *Monitor {
	return &Monitor{
		id:             id,
		store:          store,
		validator:      token.NewValidator(store),
		storage:        storage,
		gate:           gate,
		events:         events,
		tokenCfg:       &cfg.Token,
		policy:         Policy(cfg.Session.Policy),
		idleWindow:     time.Duration(cfg.Session.IdleMinutes) * time.Minute,
		absoluteWindow: time.Duration(cfg.Session.AbsoluteMinutes) * time.Minute,
		now:            time.Now,
	}
}

// ID returns the holder session identifier.
func (m *Monitor) ID() string {
	return m.id
}

// Login performs the one-shot validation of a holder-supplied candidate.
// ok=false with a nil error is the normal negative result; errors mean
// the store could not answer.
func (m *Monitor) Login(ctx context.Context, candidate string) (bool, error) {
	ok, err := m.validator.ValidateOnce(ctx, candidate)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	m.activate(ctx, token.Normalize(candidate), m.now(), models.EventSessionStarted)
	return true, nil
}

// Resume restores a session from durable holder storage. The restored
// session becomes active immediately; the watcher's warm-up interval
// protects it from a spurious negative while the mirror is still empty.
func (m *Monitor) Resume(ctx context.Context) (bool, error) {
	stored, err := m.storage.Load(ctx, m.id)
	if err != nil {
		return false, err
	}
	if stored == nil || !stored.IsAuthenticated || stored.UserToken == "" {
		return false, nil
	}

	if m.policy == PolicyAbsolute {
		capAt := stored.LoginTime.Add(m.absoluteWindow)
		if !capAt.After(m.now()) {
			logrus.WithField("session_id", m.id).Info("Stored session past absolute cap, clearing")
			if err := m.storage.Clear(ctx, m.id); err != nil {
				logrus.WithError(err).Warn("Failed to clear stale holder state")
			}
			return false, nil
		}
	}

	m.activate(ctx, stored.UserToken, stored.LoginTime, models.EventSessionResumed)
	return true, nil
}

func (m *Monitor) activate(ctx context.Context, tokenValue string, loginTime time.Time, event string) {
	now := m.now()

	m.mu.Lock()
	m.state = StateActive
	m.activeToken = tokenValue
	m.loginTime = loginTime
	m.lastActivity = now
	m.mu.Unlock()

	if err := m.storage.Save(ctx, m.id, &HolderState{
		IsAuthenticated: true,
		UserToken:       tokenValue,
		LoginTime:       loginTime,
	}); err != nil {
		logrus.WithError(err).WithField("session_id", m.id).Error("Failed to persist holder state")
	}

	watcher := token.NewWatcher(m.store, m.tokenCfg)
	stop, err := watcher.Start(context.Background(), tokenValue, func() {
		m.terminate(models.ReasonTokenInvalid)
	})
	if err != nil {
		// Re-establishing a broken subscription is the collaborator's
		// concern; the policy alarm still bounds the session.
		logrus.WithError(err).WithField("session_id", m.id).Error("Continuous validation unavailable")
	} else {
		m.mu.Lock()
		m.watcher = watcher
		m.stopWatch = stop
		m.mu.Unlock()
	}

	m.scheduleAlarm(loginTime, now)

	m.gate.Render(ctx, m.id)

	if err := m.events.Publish(models.LifecycleEvent{
		Event:      event,
		SessionID:  m.id,
		TokenValue: tokenValue,
	}); err != nil {
		logrus.WithError(err).Warn("Session event publication failed")
	}

	logrus.WithFields(logrus.Fields{
		"session_id": m.id,
		"policy":     m.policy,
	}).Info("Session active")
}

func (m *Monitor) scheduleAlarm(loginTime, now time.Time) {
	var alarm *time.Timer

	switch m.policy {
	case PolicyAbsolute:
		remaining := loginTime.Add(m.absoluteWindow).Sub(now)
		if remaining < 0 {
			remaining = 0
		}
		alarm = time.AfterFunc(remaining, func() {
			m.terminate(models.ReasonAbsoluteTTL)
		})
	default:
		alarm = time.AfterFunc(m.idleWindow, func() {
			m.terminate(models.ReasonIdleTimeout)
		})
	}

	m.mu.Lock()
	m.alarm = alarm
	m.mu.Unlock()
}

// Touch records holder activity. Under the idle policy it postpones
// termination by exactly the configured window from this instant; under
// the absolute policy only the activity timestamp moves.
func (m *Monitor) Touch() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateActive {
		return
	}

	m.lastActivity = m.now()
	if m.policy != PolicyAbsolute && m.alarm != nil {
		m.alarm.Reset(m.idleWindow)
	}
}

// Exit terminates on explicit holder request.
func (m *Monitor) Exit() {
	m.terminate(models.ReasonExplicitExit)
}

// terminate moves the session to its absorbing state: all timers and the
// store subscription are cancelled, durable holder state is cleared and
// the gate hides the credential. Safe to call any number of times.
func (m *Monitor) terminate(reason string) {
	m.mu.Lock()
	if m.state == StateTerminated {
		m.mu.Unlock()
		return
	}
	m.state = StateTerminated
	alarm := m.alarm
	stopWatch := m.stopWatch
	m.alarm = nil
	m.watcher = nil
	m.stopWatch = nil
	m.mu.Unlock()

	if alarm != nil {
		alarm.Stop()
	}
	if stopWatch != nil {
		stopWatch()
	}

	if err := m.storage.Clear(context.Background(), m.id); err != nil {
		logrus.WithError(err).WithField("session_id", m.id).Error("Failed to clear holder state")
	}

	m.gate.Hide(m.id)

	if err := m.events.Publish(models.LifecycleEvent{
		Event:     models.EventSessionTerminated,
		SessionID: m.id,
		Reason:    reason,
	}); err != nil {
		logrus.WithError(err).Warn("Session event publication failed")
	}

	logrus.WithFields(logrus.Fields{
		"session_id": m.id,
		"reason":     reason,
	}).Info("Session terminated")
}

// State returns the current lifecycle state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// ActiveToken returns the bound token value while the session is active.
func (m *Monitor) ActiveToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateActive {
		return ""
	}
	return m.activeToken
}

// Remaining projects the bound token's outstanding lifetime from the
// watcher mirror. ok=false when the session is not active or the mirror
// has no record yet (cold start).
func (m *Monitor) Remaining() (token.Remaining, bool) {
	m.mu.Lock()
	watcher := m.watcher
	value := m.activeToken
	active := m.state == StateActive
	m.mu.Unlock()

	if !active || watcher == nil {
		return token.Remaining{}, false
	}

	record := watcher.Lookup(value)
	if record == nil {
		return token.Remaining{}, false
	}

	return token.TimeRemaining(record.ExpiresAt, m.now()), true
}

// LastActivity returns the instant of the last recorded holder activity.
func (m *Monitor) LastActivity() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastActivity
}
