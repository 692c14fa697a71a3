package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/battlemap/pkg/board"
	"github.com/matzehuels/battlemap/pkg/geom"
	"github.com/matzehuels/battlemap/pkg/gesture"
	"github.com/matzehuels/battlemap/pkg/token"
)

func TestCanvasOutline(t *testing.T) {
	c := newCanvas(5, 3)
	c.outline(geom.R(0, 0, 40, 48), paintMarquee)

	want := strings.Join([]string{
		"┌───┐",
		"│   │",
		"└───┘",
	}, "\n")
	assert.Equal(t, want, c.String())
}

func TestCanvasClipsToBounds(t *testing.T) {
	c := newCanvas(3, 2)
	c.fill(geom.R(-80, -80, 1000, 1000), '#', paintArea)
	assert.Equal(t, "###\n###", c.String())

	c.set(-1, 0, 'x', paintArea)
	c.set(3, 0, 'x', paintArea)
	assert.Equal(t, "###\n###", c.String())
}

func TestCanvasLabelTruncates(t *testing.T) {
	c := newCanvas(6, 1)
	c.label(geom.R(8, 0, 24, 16), "wizard", paintCharacter)
	assert.Equal(t, " wiz  ", c.String())
}

func TestCanvasRenderKeepsText(t *testing.T) {
	c := newCanvas(4, 1)
	c.set(1, 0, 'a', paintCharacter)
	c.set(2, 0, 'b', paintSelected)
	assert.Contains(t, c.Render(), "a")
	assert.Contains(t, c.Render(), "b")
}

func newPaintBoard(t *testing.T, sc token.Scene, tokens []token.Token) *board.Board {
	t.Helper()
	store := token.NewMemoryStore()
	require.NoError(t, token.Seed(context.Background(), store, sc, tokens))
	logger := log.New(io.Discard)
	b := board.New(sc, token.NewCommitter(store, logger, 0), board.Options{Logger: logger})
	b.SetSnapshot(tokens)
	return b
}

func TestPaintBoardTokens(t *testing.T) {
	b := newPaintBoard(t, viewScene, []token.Token{
		{Key: "a", Scene: "crypt", Name: "A", Kind: token.KindCharacter, Position: geom.V(16, 16), Visible: true},
		{Key: "pit", Scene: "crypt", Kind: token.KindArea, Position: geom.V(48, 0), Size: ptr(geom.V(32, 16)), Visible: true},
	})

	c := paintBoard(b, 12, 3)
	assert.Equal(t, 'A', c.at(2, 1))
	assert.Equal(t, paintCharacter, c.paints[1*c.w+3])
	for x := 6; x < 10; x++ {
		assert.Equal(t, '░', c.at(x, 0), "area column %d", x)
	}
}

func TestPaintBoardSelectionMarquee(t *testing.T) {
	b := newPaintBoard(t, viewScene, nil)
	b.Handle(gesture.Event{Kind: gesture.Down, Client: geom.V(4, 8), Buttons: gesture.ButtonLeft})
	b.Handle(gesture.Event{Kind: gesture.Move, Client: geom.V(36, 40), Buttons: gesture.ButtonLeft})

	c := paintBoard(b, 6, 4)
	assert.Equal(t, '┌', c.at(0, 0))
	assert.Equal(t, '┘', c.at(4, 2))
}

func TestPaintBoardBoundedScene(t *testing.T) {
	sc := viewScene
	sc.Columns, sc.Rows = 1, 1
	b := newPaintBoard(t, sc, nil)

	c := paintBoard(b, 4, 2)
	assert.Equal(t, paintLight, c.paints[0])
	assert.Equal(t, paintOutside, c.paints[3], "cells past the grid stay blank")
	assert.Equal(t, paintOutside, c.paints[1*c.w])
}

func TestTokenLabel(t *testing.T) {
	assert.Equal(t, "Ogre", tokenLabel(token.Token{Key: "o", Name: "Ogre"}))
	assert.Equal(t, "o", tokenLabel(token.Token{Key: "o", Kind: token.KindCharacter}))
	assert.Equal(t, "", tokenLabel(token.Token{Key: "9f1c", Kind: token.KindArea}))
}

func ptr[T any](v T) *T { return &v }
