package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"sanket/services/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryReturnsSameAppPerVisitor(t *testing.T) {
	reg, err := NewRegistry(2, Deps{Gateway: &fakeGateway{}, Identity: &fakeIdentity{}})
	require.NoError(t, err)

	a := reg.Get(context.Background(), "v1")
	assert.Same(t, a, reg.Get(context.Background(), "v1"))
	assert.NotSame(t, a, reg.Get(context.Background(), "v2"))
	assert.Equal(t, 2, reg.Len())

	reg.Get(context.Background(), "v3")
	assert.Equal(t, 2, reg.Len())
	assert.NotSame(t, a, reg.Get(context.Background(), "v1"), "least recently used visitor is evicted")
}

func TestRegistryRestoresPersistedSignIn(t *testing.T) {
	persister := session.NewMemoryPersister()
	require.NoError(t, persister.Save(context.Background(), "v1", session.Credential{
		UserID:       "u1",
		Email:        "a@example.com",
		IDToken:      "tok-1",
		RefreshToken: "r",
		ExpiresAt:    time.Now().Add(time.Hour),
	}))
	gw := &fakeGateway{}
	reg, err := NewRegistry(4, Deps{Gateway: gw, Identity: &fakeIdentity{}, Persister: persister})
	require.NoError(t, err)

	app := reg.Get(context.Background(), "v1")

	page := app.Snapshot()
	assert.True(t, page.SignedIn)
	assert.Equal(t, "a@example.com", page.UserEmail)
	assert.Equal(t, []string{"get-history", "get-profile"}, gw.Calls())

	reg.Get(context.Background(), "v1")
	assert.Len(t, gw.Calls(), 2, "restore runs once per visitor")
}

type unreachablePersister struct {
	*session.MemoryPersister
	down bool
}

func (p *unreachablePersister) Load(ctx context.Context, visitorID string) (*session.Credential, error) {
	if p.down {
		return nil, errors.New("redis: connection refused")
	}
	return p.MemoryPersister.Load(ctx, visitorID)
}

func TestRegistryRetriesRestoreAfterLoadFailure(t *testing.T) {
	persister := &unreachablePersister{MemoryPersister: session.NewMemoryPersister(), down: true}
	require.NoError(t, persister.Save(context.Background(), "v1", session.Credential{
		UserID:    "u1",
		Email:     "a@example.com",
		IDToken:   "tok-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}))
	reg, err := NewRegistry(4, Deps{Gateway: &fakeGateway{}, Identity: &fakeIdentity{}, Persister: persister})
	require.NoError(t, err)

	assert.False(t, reg.Get(context.Background(), "v1").Snapshot().SignedIn)

	persister.down = false
	assert.True(t, reg.Get(context.Background(), "v1").Snapshot().SignedIn)
}

func TestNewVisitorIDIsUnique(t *testing.T) {
	assert.NotEqual(t, NewVisitorID(), NewVisitorID())
}
