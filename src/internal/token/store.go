package token

import "context"

// Store is the persistence contract for token records. The engine reads
// and writes records through it but does not own the implementation;
// tests substitute an in-memory fake.
type Store interface {
	// Insert writes a new record as a single atomic insert and returns
	// the store-assigned id.
	Insert(ctx context.Context, record *Token) (string, error)

	// FindByValue returns all records carrying the given value.
	FindByValue(ctx context.Context, value string) ([]*Token, error)

	// List returns the full record set.
	List(ctx context.Context) ([]*Token, error)

	// Deactivate clears the is_active flag of the record with the given
	// id, revoking it before natural expiry.
	Deactivate(ctx context.Context, id string) error

	// SubscribeAll pushes the full record set to onChange whenever the
	// store applies a change, starting with an initial snapshot. Updates
	// arrive in store-apply order for this subscriber only; there is no
	// cross-subscriber ordering guarantee. The returned func cancels the
	// subscription.
	SubscribeAll(ctx context.Context, onChange func([]*Token), onError func(error)) (func(), error)
}
