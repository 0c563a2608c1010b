package models

import "errors"

var (
	ErrRedisConnection = errors.New("redis connection error")
	ErrRedisGet        = errors.New("redis get error")
	ErrRedisSet        = errors.New("redis set error")
	ErrRedisDelete     = errors.New("redis delete error")
)

var (
	// ErrStoreUnavailable is returned when the token store cannot be
	// reached. It is never resolved to a positive validation result.
	ErrStoreUnavailable = errors.New("token store unavailable")
	// ErrInvalidInput rejects an empty or malformed candidate before
	// any store query happens.
	ErrInvalidInput  = errors.New("invalid input")
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenIssuing  = errors.New("error issuing token")
	ErrTokenRevoking = errors.New("error revoking token")
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionTerminated = errors.New("session terminated")
	ErrCredentialHidden  = errors.New("credential hidden")
	ErrCredentialMissing = errors.New("credential not configured")
)

var (
	ErrDatabaseConnection = errors.New("database connection error")
	ErrDatabaseQuery      = errors.New("database query error")
	ErrDatabaseInsert     = errors.New("database insert error")
	ErrDatabaseUpdate     = errors.New("database update error")
)
