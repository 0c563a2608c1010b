package session

import "time"

// State is the holder session lifecycle state. Terminated is absorbing:
// re-entry requires a fresh successful validation producing a new session.
type State int

const (
	StateUnauthenticated State = iota
	StateActive
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateTerminated:
		return "terminated"
	default:
		return "unauthenticated"
	}
}

// Policy names the session expiry policy in effect.
type Policy string

const (
	// PolicyIdle terminates after a window with no holder activity.
	PolicyIdle Policy = "idle"
	// PolicyAbsolute terminates a fixed duration after login,
	// regardless of activity.
	PolicyAbsolute Policy = "absolute"
)

// HolderState is the durable holder-side session record. It survives a
// holder restart and is cleared in full on termination.
type HolderState struct {
	IsAuthenticated bool      `json:"isAuthenticated"`
	UserToken       string    `json:"userToken"`
	LoginTime       time.Time `json:"loginTime"`
}
