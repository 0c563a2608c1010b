package models

import "time"

// LifecycleEvent is published to the message queue on token and session
// state transitions. Consumers (audit, notification) are external.
type LifecycleEvent struct {
	Event      string            `json:"event"`
	TokenValue string            `json:"token_value,omitempty"`
	TokenID    string            `json:"token_id,omitempty"`
	SessionID  string            `json:"session_id,omitempty"`
	Reason     string            `json:"reason,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// Event name constants
const (
	EventTokenIssued       = "token.issued"
	EventTokenRevoked      = "token.revoked"
	EventSessionStarted    = "session.started"
	EventSessionResumed    = "session.resumed"
	EventSessionTerminated = "session.terminated"
)

// Termination reason constants
const (
	ReasonTokenInvalid = "token_invalid"
	ReasonIdleTimeout  = "idle_timeout"
	ReasonAbsoluteTTL  = "absolute_ttl"
	ReasonExplicitExit = "explicit_exit"
)
