package token

import (
	"context"
	"math/rand"
	"time"

	"accessgate-svc/src/clients"
	"accessgate-svc/src/internal/config"
	"accessgate-svc/src/internal/models"

	"github.com/sirupsen/logrus"
)

// valueAlphabet is the fixed alphabet token values are drawn from. Values
// are human-copyable access codes, not security credentials.
const valueAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Issuer mints token records with a fixed time-to-live and inserts them
// into the store. Values are not deduplicated against existing tokens.
type Issuer struct {
	store  Store
	events *clients.EventPublisher
	cfg    *config.TokenConfig
	rand   *rand.Rand
	now    func() time.Time
}

func NewIssuer(store Store, events *clients.EventPublisher, cfg *config.TokenConfig) *Issuer {
	return &Issuer{
		store:  store,
		events: events,
		cfg:    cfg,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
	}
}

// Issue generates a fresh token value, writes its record as a single
// atomic insert and returns the record. On store failure no token value
// is returned and no partial effect remains.
func (i *Issuer) Issue(ctx context.Context) (*Token, error) {
	now := i.now()
	record := &Token{
		Value:     i.generateValue(),
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(i.cfg.TTLMinutes) * time.Minute),
		IsActive:  true,
	}

	id, err := i.store.Insert(ctx, record)
	if err != nil {
		logrus.WithError(err).Error("Failed to issue token")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"token_id":   id,
		"expires_at": record.ExpiresAt,
	}).Info("Token issued")

	if err := i.events.Publish(models.LifecycleEvent{
		Event:      models.EventTokenIssued,
		TokenID:    id,
		TokenValue: record.Value,
	}); err != nil {
		logrus.WithError(err).Warn("Token issued but event publication failed")
	}

	return record, nil
}

func (i *Issuer) generateValue() string {
	length := i.cfg.ValueLength
	if length <= 0 {
		length = 8
	}

	value := make([]byte, length)
	for n := range value {
		value[n] = valueAlphabet[i.rand.Intn(len(valueAlphabet))]
	}
	return string(value)
}
