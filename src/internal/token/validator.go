package token

import (
	"context"
	"strings"
	"time"

	"accessgate-svc/src/internal/models"

	"github.com/sirupsen/logrus"
)

// IsValid reports whether any record in records grants access to the
// candidate value at the given instant. It is a pure predicate: validity
// is re-evaluated from scratch on every call, never cached.
func IsValid(candidate string, records []*Token, now time.Time) bool {
	if candidate == "" {
		return false
	}
	for _, r := range records {
		if r.Value == candidate && r.ValidAt(now) {
			return true
		}
	}
	return false
}

// Normalize canonicalises a holder-supplied candidate before validation.
func Normalize(candidate string) string {
	return strings.ToUpper(strings.TrimSpace(candidate))
}

// Validator answers one-shot validity questions against the store.
type Validator struct {
	store Store
	now   func() time.Time
}

func NewValidator(store Store) *Validator {
	return &Validator{store: store, now: time.Now}
}

// ValidateOnce is a point-in-time check, not a transaction: a token
// expiring between query and use is tolerated. Store failure is surfaced
// as an error and never resolves to a positive result.
func (v *Validator) ValidateOnce(ctx context.Context, candidate string) (bool, error) {
	candidate = Normalize(candidate)
	if candidate == "" {
		return false, models.ErrInvalidInput
	}

	records, err := v.store.FindByValue(ctx, candidate)
	if err != nil {
		logrus.WithError(err).Error("Token validation query failed")
		return false, models.ErrStoreUnavailable
	}

	valid := IsValid(candidate, records, v.now())

	logrus.WithFields(logrus.Fields{
		"candidate": candidate,
		"matches":   len(records),
		"valid":     valid,
	}).Debug("One-shot token validation")

	return valid, nil
}
