package token

import (
	"context"
	"sync"
	"time"

	"accessgate-svc/src/internal/config"

	"github.com/sirupsen/logrus"
)

// Watcher keeps a live mirror of the full token record set and re-checks
// a bound candidate against it. Two independent triggers feed the same
// idempotent check: every store push and a fixed polling interval as a
// backstop against missed notifications.
//
// Immediately after subscribing the mirror is not trustworthy for
// negative conclusions (a restored session may be checked before the
// first snapshot lands), so no invalidity is reported until a warm-up
// interval has elapsed.
type Watcher struct {
	store        Store
	warmup       time.Duration
	pollInterval time.Duration
	now          func() time.Time

	mu        sync.Mutex
	records   []*Token
	warmedUp  bool
	stopped   bool
	candidate string
	onInvalid func()
}

func NewWatcher(store Store, cfg *config.TokenConfig) *Watcher {
	warmup := time.Duration(cfg.WarmupSeconds) * time.Second
	if warmup <= 0 {
		warmup = 2 * time.Second
	}
	poll := time.Duration(cfg.PollIntervalSeconds) * time.Second
	if poll <= 0 {
		poll = 30 * time.Second
	}

	return &Watcher{
		store:        store,
		warmup:       warmup,
		pollInterval: poll,
		now:          time.Now,
	}
}

// Start subscribes to the store and begins watching the candidate.
// onInvalid fires whenever a post-warm-up check finds the candidate
// invalid; the consumer must tolerate duplicate invocations. The
// returned func cancels the subscription and all timers.
func (w *Watcher) Start(ctx context.Context, candidate string, onInvalid func()) (func(), error) {
	w.mu.Lock()
	w.candidate = candidate
	w.onInvalid = onInvalid
	w.mu.Unlock()

	unsubscribe, err := w.store.SubscribeAll(ctx, w.applySnapshot, w.handleStreamError)
	if err != nil {
		return nil, err
	}

	warmTimer := time.AfterFunc(w.warmup, func() {
		w.mu.Lock()
		w.warmedUp = true
		w.mu.Unlock()
		logrus.WithField("candidate", candidate).Debug("Token watcher warm-up elapsed")
		w.check()
	})

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(w.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.check()
			}
		}
	}()

	var stopOnce sync.Once
	stop := func() {
		stopOnce.Do(func() {
			w.mu.Lock()
			w.stopped = true
			w.mu.Unlock()
			warmTimer.Stop()
			close(done)
			unsubscribe()
		})
	}

	return stop, nil
}

// Lookup returns the mirrored record for the given value, or nil when the
// mirror holds none. Read-only; used for display projections.
func (w *Watcher) Lookup(value string) *Token {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, r := range w.records {
		if r.Value == value {
			return r
		}
	}
	return nil
}

func (w *Watcher) applySnapshot(records []*Token) {
	w.mu.Lock()
	w.records = records
	w.mu.Unlock()
	w.check()
}

// handleStreamError treats a broken subscription as "unknown", never as
// "invalid": the last known mirror stays in place and the poll keeps
// evaluating it. Re-establishing the subscription is the collaborator's
// concern.
func (w *Watcher) handleStreamError(err error) {
	logrus.WithError(err).Warn("Token subscription error, keeping last known records")
}

func (w *Watcher) check() {
	w.mu.Lock()
	if w.stopped || !w.warmedUp {
		w.mu.Unlock()
		return
	}
	candidate := w.candidate
	valid := IsValid(candidate, w.records, w.now())
	onInvalid := w.onInvalid
	w.mu.Unlock()

	if !valid {
		logrus.WithField("candidate", candidate).Info("Bound token no longer valid")
		onInvalid()
	}
}
