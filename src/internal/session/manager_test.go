package session

import (
	"context"
	"testing"
	"time"

	"accessgate-svc/src/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, *fakeTokenStore, *fakeStorage) {
	t.Helper()
	store := &fakeTokenStore{}
	storage := newFakeStorage()
	mgr := NewManager(store, storage, newFakeGate(), nil, testConfig(PolicyIdle))
	return mgr, store, storage
}

func addToken(store *fakeTokenStore, value string) {
	store.add(&token.Token{
		Value:     value,
		IsActive:  true,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(10 * time.Minute),
	})
}

func TestManagerLoginRegistersMonitor(t *testing.T) {
	mgr, store, _ := newTestManager(t)
	addToken(store, "ABC12345")

	id, ok, err := mgr.Login(context.Background(), "ABC12345")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, id)

	monitor := mgr.Get(id)
	require.NotNil(t, monitor)
	assert.Equal(t, StateActive, monitor.State())
	t.Cleanup(monitor.Exit)
}

func TestManagerLoginRejectedRegistersNothing(t *testing.T) {
	mgr, _, _ := newTestManager(t)

	id, ok, err := mgr.Login(context.Background(), "NOSUCH00")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestManagerGetDropsTerminated(t *testing.T) {
	mgr, store, _ := newTestManager(t)
	addToken(store, "ABC12345")

	id, ok, err := mgr.Login(context.Background(), "ABC12345")
	require.NoError(t, err)
	require.True(t, ok)

	mgr.Get(id).Exit()
	assert.Nil(t, mgr.Get(id))
}

func TestManagerExitUnknownSession(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	mgr.Exit("no-such-id")
	assert.False(t, mgr.Touch("no-such-id"))
}

func TestManagerExitTerminatesAndForgets(t *testing.T) {
	mgr, store, storage := newTestManager(t)
	addToken(store, "ABC12345")

	id, ok, err := mgr.Login(context.Background(), "ABC12345")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, storage.get(id))

	mgr.Exit(id)

	assert.Nil(t, mgr.Get(id))
	assert.Nil(t, storage.get(id))
}

func TestManagerResumeReusesLiveMonitor(t *testing.T) {
	mgr, store, _ := newTestManager(t)
	addToken(store, "ABC12345")

	id, ok, err := mgr.Login(context.Background(), "ABC12345")
	require.NoError(t, err)
	require.True(t, ok)
	live := mgr.Get(id)
	t.Cleanup(live.Exit)

	resumed, ok, err := mgr.Resume(context.Background(), id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, live, resumed)
}

func TestManagerResumeFromStorage(t *testing.T) {
	mgr, store, storage := newTestManager(t)
	addToken(store, "ABC12345")
	require.NoError(t, storage.Save(context.Background(), "restored-1", &HolderState{
		IsAuthenticated: true,
		UserToken:       "ABC12345",
		LoginTime:       time.Now().Add(-time.Minute),
	}))

	monitor, ok, err := mgr.Resume(context.Background(), "restored-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, monitor)
	t.Cleanup(monitor.Exit)

	assert.Equal(t, StateActive, monitor.State())
	assert.Equal(t, "ABC12345", monitor.ActiveToken())
	assert.Same(t, monitor, mgr.Get("restored-1"))
}

func TestManagerResumeEmptyID(t *testing.T) {
	mgr, _, _ := newTestManager(t)

	monitor, ok, err := mgr.Resume(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, monitor)
}
