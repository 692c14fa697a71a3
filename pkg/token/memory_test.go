package token

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/battlemap/pkg/geom"
)

func seededStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.PutScene(ctx, Scene{ID: "crypt", CellSize: 50}))
	for _, key := range []string{"wizard", "fighter", "rogue"} {
		require.NoError(t, s.PutToken(ctx, Token{Key: key, Scene: "crypt", Kind: KindCharacter, Visible: true}))
	}
	return s
}

func TestMemoryStoreTokensSorted(t *testing.T) {
	s := seededStore(t)
	got, err := s.Tokens(context.Background(), "crypt")
	require.NoError(t, err)

	keys := make([]string, len(got))
	for i, tok := range got {
		keys[i] = tok.Key
	}
	assert.Equal(t, []string{"fighter", "rogue", "wizard"}, keys)
}

func TestMemoryStoreUnknownScene(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Scene(ctx, "nope")
	assert.ErrorIs(t, err, ErrSceneNotFound)

	_, err = s.Tokens(ctx, "nope")
	assert.ErrorIs(t, err, ErrSceneNotFound)

	err = s.PutToken(ctx, Token{Key: "a", Scene: "nope", Kind: KindCharacter})
	assert.ErrorIs(t, err, ErrSceneNotFound)
}

func TestMemoryStoreUpdates(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpdatePosition(ctx, "crypt", "rogue", geom.V(250, 100)))
	require.NoError(t, s.UpdateVisibility(ctx, "crypt", "rogue", false))

	got, err := s.Tokens(ctx, "crypt")
	require.NoError(t, err)
	assert.Equal(t, geom.V(250, 100), got[1].Position)
	assert.False(t, got[1].Visible)

	assert.ErrorIs(t, s.UpdatePosition(ctx, "crypt", "ghost", geom.Zero), ErrTokenNotFound)
	assert.ErrorIs(t, s.UpdateVisibility(ctx, "crypt", "ghost", true), ErrTokenNotFound)
}

func TestMemoryStoreDoesNotAlias(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.PutScene(ctx, Scene{ID: "crypt", CellSize: 50}))

	size := geom.V(100, 100)
	require.NoError(t, s.PutToken(ctx, Token{Key: "pit", Scene: "crypt", Kind: KindArea, Size: &size}))
	size.X = 999

	got, err := s.Tokens(ctx, "crypt")
	require.NoError(t, err)
	got[0].Size.Y = 999

	again, err := s.Tokens(ctx, "crypt")
	require.NoError(t, err)
	assert.Equal(t, geom.V(100, 100), *again[0].Size)
}

func TestMemoryStoreDelete(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	require.NoError(t, s.DeleteToken(ctx, "crypt", "rogue"))
	require.NoError(t, s.DeleteToken(ctx, "crypt", "rogue"))

	got, err := s.Tokens(ctx, "crypt")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
