package token

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Token is a short opaque access token record. Validity is always computed
// from IsActive and ExpiresAt against the current instant, never cached.
type Token struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Value     string             `json:"value" bson:"value"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
	ExpiresAt time.Time          `json:"expiresAt" bson:"expires_at"`
	IsActive  bool               `json:"isActive" bson:"is_active"`
}

// ValidAt reports whether the record grants access at the given instant.
func (t *Token) ValidAt(now time.Time) bool {
	return t.IsActive && t.ExpiresAt.After(now)
}

// View is the admin-facing projection of a token record, with the
// remaining lifetime precomputed for display.
type View struct {
	ID        string    `json:"id"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsActive  bool      `json:"isActive"`
	Expired   bool      `json:"expired"`
	Remaining Remaining `json:"remaining"`
}

// ToView converts a record to its admin projection at the given instant.
func (t *Token) ToView(now time.Time) *View {
	return &View{
		ID:        t.ID.Hex(),
		Value:     t.Value,
		CreatedAt: t.CreatedAt,
		ExpiresAt: t.ExpiresAt,
		IsActive:  t.IsActive,
		Expired:   !t.ExpiresAt.After(now),
		Remaining: TimeRemaining(t.ExpiresAt, now),
	}
}
