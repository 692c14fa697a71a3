package mongo

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/matzehuels/battlemap/pkg/geom"
	"github.com/matzehuels/battlemap/pkg/token"
)

func TestFilters(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "_id", Value: "crypt"}}, sceneFilter("crypt"))
	assert.Equal(t,
		bson.D{{Key: "scene", Value: "crypt"}, {Key: "key", Value: "wizard"}},
		tokenFilter("crypt", "wizard"))
}

func TestSetField(t *testing.T) {
	got := setField("visible", false)
	require.Len(t, got, 1)
	assert.Equal(t, "$set", got[0].Key)
	assert.Equal(t, bson.D{{Key: "visible", Value: false}}, got[0].Value)
}

func TestTokenIndexUnique(t *testing.T) {
	idx := tokenIndex()
	require.NotNil(t, idx.Options)
	require.NotNil(t, idx.Options.Unique)
	assert.True(t, *idx.Options.Unique)
}

func TestTokenDocument(t *testing.T) {
	size := geom.V(100, 50)
	in := token.Token{Key: "pit", Scene: "crypt", Kind: token.KindArea, Position: geom.V(1, 2), Size: &size}

	raw, err := bson.Marshal(in)
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, "crypt", doc["scene"])
	assert.Equal(t, "pit", doc["key"])

	var out token.Token
	require.NoError(t, bson.Unmarshal(raw, &out))
	assert.Equal(t, in, out)
}

// TestStoreLive runs against a real server when BATTLEMAP_MONGO_URI is set.
func TestStoreLive(t *testing.T) {
	uri := os.Getenv("BATTLEMAP_MONGO_URI")
	if uri == "" {
		t.Skip("BATTLEMAP_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewStore(ctx, Config{URI: uri, Database: "battlemap_test"})
	require.NoError(t, err)
	defer s.Close()
	defer s.client.Database("battlemap_test").Drop(ctx)

	sc := token.Scene{ID: "crypt", CellSize: 50}
	require.NoError(t, s.PutScene(ctx, sc))
	require.NoError(t, s.PutToken(ctx, token.Token{Key: "a", Scene: "crypt", Kind: token.KindCharacter, Visible: true}))
	require.NoError(t, s.UpdateVisibility(ctx, "crypt", "a", false))
	assert.ErrorIs(t, s.UpdateVisibility(ctx, "crypt", "missing", true), token.ErrTokenNotFound)

	got, err := s.Tokens(ctx, "crypt")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].Visible)

	loaded, err := s.Scene(ctx, "crypt")
	require.NoError(t, err)
	assert.Equal(t, sc, loaded)
}
