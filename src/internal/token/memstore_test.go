package token

import (
	"context"
	"sync"

	"accessgate-svc/src/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory Store with the same push semantics as the
// Mongo-backed one: every mutation pushes the full record set to all
// subscribers. Tests can also push arbitrary snapshots to simulate
// out-of-order or duplicate notifications.
type memStore struct {
	mu          sync.Mutex
	records     []*Token
	subscribers []func([]*Token)
	failing     bool
	inserts     int
}

func newMemStore() *memStore {
	return &memStore{}
}

func (s *memStore) Insert(ctx context.Context, record *Token) (string, error) {
	s.mu.Lock()
	if s.failing {
		s.mu.Unlock()
		return "", models.ErrStoreUnavailable
	}
	record.ID = primitive.NewObjectID()
	s.records = append(s.records, record)
	s.inserts++
	snapshot := s.snapshotLocked()
	subs := append([]func([]*Token){}, s.subscribers...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snapshot)
	}
	return record.ID.Hex(), nil
}

func (s *memStore) FindByValue(ctx context.Context, value string) ([]*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return nil, models.ErrStoreUnavailable
	}

	var matches []*Token
	for _, r := range s.records {
		if r.Value == value {
			matches = append(matches, r)
		}
	}
	return matches, nil
}

func (s *memStore) List(ctx context.Context) ([]*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return nil, models.ErrStoreUnavailable
	}
	return s.snapshotLocked(), nil
}

func (s *memStore) Deactivate(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.failing {
		s.mu.Unlock()
		return models.ErrStoreUnavailable
	}

	var found *Token
	for _, r := range s.records {
		if r.ID.Hex() == id {
			found = r
			break
		}
	}
	if found == nil {
		s.mu.Unlock()
		return models.ErrTokenNotFound
	}
	found.IsActive = false
	snapshot := s.snapshotLocked()
	subs := append([]func([]*Token){}, s.subscribers...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snapshot)
	}
	return nil
}

func (s *memStore) SubscribeAll(ctx context.Context, onChange func([]*Token), onError func(error)) (func(), error) {
	s.mu.Lock()
	if s.failing {
		s.mu.Unlock()
		return nil, models.ErrStoreUnavailable
	}
	s.subscribers = append(s.subscribers, onChange)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	onChange(snapshot)
	return func() {}, nil
}

// push delivers an arbitrary snapshot to all subscribers, bypassing the
// stored record set.
func (s *memStore) push(snapshot []*Token) {
	s.mu.Lock()
	subs := append([]func([]*Token){}, s.subscribers...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snapshot)
	}
}

func (s *memStore) add(record *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	s.records = append(s.records, record)
}

func (s *memStore) snapshotLocked() []*Token {
	snapshot := make([]*Token, len(s.records))
	copy(snapshot, s.records)
	return snapshot
}
