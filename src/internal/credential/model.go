package credential

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Credential is the single shared account credential pair gated behind an
// active session. The engine consumes it; the admin surface owns updates.
type Credential struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"password" bson:"password"`
	UpdatedAt time.Time          `json:"lastUpdate" bson:"last_update"`
}
