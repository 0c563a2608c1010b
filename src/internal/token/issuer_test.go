package token

import (
	"context"
	"strings"
	"testing"
	"time"

	"accessgate-svc/src/internal/config"
	"accessgate-svc/src/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(store Store) *Issuer {
	return NewIssuer(store, nil, &config.TokenConfig{ValueLength: 8, TTLMinutes: 10})
}

func TestIssueCreatesRecord(t *testing.T) {
	store := newMemStore()
	issuer := newTestIssuer(store)

	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return issued }

	record, err := issuer.Issue(context.Background())
	require.NoError(t, err)

	assert.Len(t, record.Value, 8)
	for _, r := range record.Value {
		assert.Contains(t, valueAlphabet, string(r))
	}
	assert.Equal(t, strings.ToUpper(record.Value), record.Value)
	assert.Equal(t, issued, record.CreatedAt)
	assert.Equal(t, issued.Add(10*time.Minute), record.ExpiresAt)
	assert.True(t, record.IsActive)
	assert.False(t, record.ID.IsZero(), "store assigns the id")
	assert.Equal(t, 1, store.inserts)
}

func TestIssuedTokenValidates(t *testing.T) {
	store := newMemStore()
	issuer := newTestIssuer(store)

	record, err := issuer.Issue(context.Background())
	require.NoError(t, err)

	v := NewValidator(store)
	ok, err := v.ValidateOnce(context.Background(), record.Value)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIssueStoreFailure(t *testing.T) {
	store := newMemStore()
	store.failing = true
	issuer := newTestIssuer(store)

	record, err := issuer.Issue(context.Background())
	assert.Nil(t, record, "no token value on failed insert")
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
	assert.Zero(t, store.inserts, "no partial side effect")
}

func TestIssueValuesVary(t *testing.T) {
	store := newMemStore()
	issuer := newTestIssuer(store)

	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		record, err := issuer.Issue(context.Background())
		require.NoError(t, err)
		seen[record.Value] = true
	}

	// Collisions are possible but 32 identical draws are not.
	assert.Greater(t, len(seen), 1)
}
