package snapshot_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-backend/internal/infrastructure/store/snapshot"
)

func newTestStore(t *testing.T) *snapshot.Store {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	store, err := snapshot.Open(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_SetAndGet(t *testing.T) {
	store := newTestStore(t)

	_, ok := store.Get(snapshot.KeyUsername)
	assert.False(t, ok)

	require.NoError(t, store.Set(snapshot.KeyUsername, "glowgetter"))

	value, ok := store.Get(snapshot.KeyUsername)
	assert.True(t, ok)
	assert.Equal(t, "glowgetter", value)
}

func TestStore_LastWriteWins(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(snapshot.KeyCart, `[{"id":1}]`))
	require.NoError(t, store.Set(snapshot.KeyCart, `[{"id":2}]`))

	value, ok := store.Get(snapshot.KeyCart)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":2}]`, value)
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(snapshot.KeyRedirectAfterLogin, "/checkout"))
	require.NoError(t, store.Delete(snapshot.KeyRedirectAfterLogin))

	_, ok := store.Get(snapshot.KeyRedirectAfterLogin)
	assert.False(t, ok)

	// Deleting an absent key is fine
	assert.NoError(t, store.Delete(snapshot.KeyRedirectAfterLogin))
}

func TestStore_GetJSON_MalformedTreatedAsAbsent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(snapshot.KeyCart, `{not valid json`))

	var items []map[string]interface{}
	ok := store.GetJSON(snapshot.KeyCart, &items)
	assert.False(t, ok)
	assert.Empty(t, items)
}

func TestStore_JSONRoundTrip(t *testing.T) {
	store := newTestStore(t)

	type identity struct {
		UID      string `json:"uid"`
		Email    string `json:"email"`
		Username string `json:"username"`
	}

	in := identity{UID: "u-1", Email: "a@b.com", Username: "glow"}
	require.NoError(t, store.SetJSON(snapshot.KeyCurrentUser, in))

	var out identity
	ok := store.GetJSON(snapshot.KeyCurrentUser, &out)
	assert.True(t, ok)
	assert.Equal(t, in, out)
}
