package credential

import (
	"context"
	"testing"

	"accessgate-svc/src/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	credential *Credential
	err        error
	gets       int
}

func (r *fakeRepository) Get(ctx context.Context) (*Credential, error) {
	r.gets++
	if r.err != nil {
		return nil, r.err
	}
	return r.credential, nil
}

func (r *fakeRepository) Upsert(ctx context.Context, email, password string) (*Credential, error) {
	r.credential = &Credential{Email: email, Password: password}
	return r.credential, nil
}

func TestGateHiddenByDefault(t *testing.T) {
	gate := NewGate(&fakeRepository{credential: &Credential{Email: "shared@example.com"}})

	_, err := gate.Current(context.Background(), "sess-1")
	assert.ErrorIs(t, err, models.ErrCredentialHidden)
}

func TestGateRenderOpensOnlyThatSession(t *testing.T) {
	repo := &fakeRepository{credential: &Credential{Email: "shared@example.com", Password: "secret"}}
	gate := NewGate(repo)

	gate.Render(context.Background(), "sess-1")

	credential, err := gate.Current(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "shared@example.com", credential.Email)

	_, err = gate.Current(context.Background(), "sess-2")
	assert.ErrorIs(t, err, models.ErrCredentialHidden)
}

func TestGateHideClosesSession(t *testing.T) {
	gate := NewGate(&fakeRepository{credential: &Credential{Email: "shared@example.com"}})

	gate.Render(context.Background(), "sess-1")
	gate.Hide("sess-1")
	gate.Hide("sess-1")

	_, err := gate.Current(context.Background(), "sess-1")
	assert.ErrorIs(t, err, models.ErrCredentialHidden)
}

func TestGateReadsCredentialFresh(t *testing.T) {
	repo := &fakeRepository{credential: &Credential{Email: "old@example.com"}}
	gate := NewGate(repo)
	gate.Render(context.Background(), "sess-1")

	_, err := gate.Current(context.Background(), "sess-1")
	require.NoError(t, err)

	// Admin rotates the credential mid-session; the open gate serves
	// the new value without re-rendering.
	repo.credential = &Credential{Email: "new@example.com"}

	credential, err := gate.Current(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", credential.Email)
}

func TestGateSurfacesRepositoryError(t *testing.T) {
	repo := &fakeRepository{err: models.ErrCredentialMissing}
	gate := NewGate(repo)
	gate.Render(context.Background(), "sess-1")

	_, err := gate.Current(context.Background(), "sess-1")
	assert.ErrorIs(t, err, models.ErrCredentialMissing)
}
