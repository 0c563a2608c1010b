package session

import (
	"context"
	"sync"

	"accessgate-svc/src/internal/models"
	"accessgate-svc/src/internal/token"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeTokenStore mimics the push-subscribable token store. Tests push
// snapshots to simulate store notifications.
type fakeTokenStore struct {
	mu          sync.Mutex
	records     []*token.Token
	subscribers []func([]*token.Token)
	failing     bool
}

func (s *fakeTokenStore) Insert(ctx context.Context, record *token.Token) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.ID = primitive.NewObjectID()
	s.records = append(s.records, record)
	return record.ID.Hex(), nil
}

func (s *fakeTokenStore) FindByValue(ctx context.Context, value string) ([]*token.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return nil, models.ErrStoreUnavailable
	}

	var matches []*token.Token
	for _, r := range s.records {
		if r.Value == value {
			matches = append(matches, r)
		}
	}
	return matches, nil
}

func (s *fakeTokenStore) List(ctx context.Context) ([]*token.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return nil, models.ErrStoreUnavailable
	}
	return append([]*token.Token{}, s.records...), nil
}

func (s *fakeTokenStore) Deactivate(ctx context.Context, id string) error {
	return nil
}

func (s *fakeTokenStore) SubscribeAll(ctx context.Context, onChange func([]*token.Token), onError func(error)) (func(), error) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, onChange)
	snapshot := append([]*token.Token{}, s.records...)
	s.mu.Unlock()

	onChange(snapshot)
	return func() {}, nil
}

func (s *fakeTokenStore) add(record *token.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	s.records = append(s.records, record)
}

func (s *fakeTokenStore) push(snapshot []*token.Token) {
	s.mu.Lock()
	subs := append([]func([]*token.Token){}, s.subscribers...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snapshot)
	}
}

// fakeStorage is an in-memory durable holder store.
type fakeStorage struct {
	mu     sync.Mutex
	states map[string]*HolderState
	clears int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{states: make(map[string]*HolderState)}
}

func (s *fakeStorage) Save(ctx context.Context, sessionID string, state *HolderState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *state
	s.states[sessionID] = &copied
	return nil
}

func (s *fakeStorage) Load(ctx context.Context, sessionID string) (*HolderState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[sessionID]
	if !ok {
		return nil, nil
	}
	copied := *state
	return &copied, nil
}

func (s *fakeStorage) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sessionID)
	s.clears++
	return nil
}

func (s *fakeStorage) get(sessionID string) *HolderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[sessionID]
}

func (s *fakeStorage) clearCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears
}

// fakeGate records render/hide notifications per session.
type fakeGate struct {
	mu       sync.Mutex
	rendered map[string]int
	hidden   map[string]int
}

func newFakeGate() *fakeGate {
	return &fakeGate{
		rendered: make(map[string]int),
		hidden:   make(map[string]int),
	}
}

func (g *fakeGate) Render(ctx context.Context, sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rendered[sessionID]++
}

func (g *fakeGate) Hide(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hidden[sessionID]++
}

func (g *fakeGate) renderCount(sessionID string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rendered[sessionID]
}

func (g *fakeGate) hideCount(sessionID string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hidden[sessionID]
}
