package board

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/battlemap/pkg/camera"
	"github.com/matzehuels/battlemap/pkg/geom"
	"github.com/matzehuels/battlemap/pkg/gesture"
	"github.com/matzehuels/battlemap/pkg/token"
)

var testScene = token.Scene{ID: "crypt", CellSize: 10}

// newTestBoard returns a board over two visible tokens, a at [10,10,10,10]
// and b at [30,30,10,10], plus a hidden token h at [60,10,10,10].
func newTestBoard(t *testing.T, opts Options) (*Board, *token.MemoryStore, *token.Committer) {
	t.Helper()
	ctx := context.Background()
	store := token.NewMemoryStore()
	tokens := []token.Token{
		{Key: "a", Scene: "crypt", Kind: token.KindCharacter, Position: geom.V(10, 10), Visible: true},
		{Key: "b", Scene: "crypt", Kind: token.KindCharacter, Position: geom.V(30, 30), Visible: true},
		{Key: "h", Scene: "crypt", Kind: token.KindCharacter, Position: geom.V(60, 10), Visible: false},
	}
	require.NoError(t, token.Seed(ctx, store, testScene, tokens))

	logger := log.New(io.Discard)
	committer := token.NewCommitter(store, logger, 0)
	opts.Logger = logger
	b := New(testScene, committer, opts)

	snapshot, err := store.Tokens(ctx, "crypt")
	require.NoError(t, err)
	b.SetSnapshot(snapshot)
	return b, store, committer
}

func left(kind gesture.Kind, x, y float64) gesture.Event {
	return gesture.Event{Kind: kind, Client: geom.V(x, y), Buttons: gesture.ButtonLeft}
}

func right(kind gesture.Kind, x, y float64) gesture.Event {
	return gesture.Event{Kind: kind, Client: geom.V(x, y), Buttons: gesture.ButtonRight}
}

func click(b *Board, x, y float64, shift bool) {
	down := left(gesture.Down, x, y)
	down.Shift = shift
	up := left(gesture.Up, x, y)
	up.Shift = shift
	b.Handle(down)
	b.Handle(up)
}

func placed(b *Board, key string) Placed {
	for _, p := range b.Tokens() {
		if p.Key == key {
			return p
		}
	}
	return Placed{}
}

func TestDragSelect(t *testing.T) {
	Convey("Given a board with tokens a and b", t, func() {
		b, _, _ := newTestBoard(t, Options{})

		Convey("dragging over a selects only a", func() {
			b.Handle(left(gesture.Down, 0, 0))
			b.Handle(left(gesture.Move, 25, 25))
			So(b.Selected(), ShouldResemble, []string{"a"})

			r, ok := b.SelectionRect()
			So(ok, ShouldBeTrue)
			So(r, ShouldResemble, geom.R(0, 0, 25, 25))

			Convey("extending the drag selects both", func() {
				b.Handle(left(gesture.Move, 35, 35))
				So(b.Selected(), ShouldResemble, []string{"a", "b"})

				Convey("releasing keeps the selection and clears the area", func() {
					b.Handle(left(gesture.Up, 35, 35))
					So(b.Selected(), ShouldResemble, []string{"a", "b"})
					_, ok := b.SelectionRect()
					So(ok, ShouldBeFalse)
				})
			})

			Convey("shrinking the drag deselects again", func() {
				b.Handle(left(gesture.Move, 35, 35))
				b.Handle(left(gesture.Move, 5, 5))
				So(b.Selected(), ShouldBeEmpty)
			})
		})

		Convey("hidden tokens are never drag-selected", func() {
			b.Handle(left(gesture.Down, 0, 0))
			b.Handle(left(gesture.Move, 100, 100))
			So(b.Selected(), ShouldResemble, []string{"a", "b"})
		})

		Convey("a cancelled drag clears the area", func() {
			b.Handle(left(gesture.Down, 0, 0))
			b.Handle(left(gesture.Move, 25, 25))
			b.Handle(gesture.Event{Kind: gesture.Blur})
			_, ok := b.SelectionRect()
			So(ok, ShouldBeFalse)
			So(b.Dragging(), ShouldBeFalse)
		})

		Convey("a new press on empty space clears the selection", func() {
			click(b, 15, 15, false)
			So(b.Selected(), ShouldResemble, []string{"a"})
			b.Handle(left(gesture.Down, 100, 100))
			So(b.Selected(), ShouldBeEmpty)
		})

		Convey("a shift drag adds to the selection", func() {
			click(b, 35, 35, false)
			down := left(gesture.Down, 0, 0)
			down.Shift = true
			b.Handle(down)
			b.Handle(left(gesture.Move, 15, 15))
			So(b.Selected(), ShouldResemble, []string{"a", "b"})
		})
	})
}

func TestClickSelect(t *testing.T) {
	b, _, _ := newTestBoard(t, Options{})

	click(b, 15, 15, false)
	assert.Equal(t, []string{"a"}, b.Selected())

	click(b, 35, 35, false)
	assert.Equal(t, []string{"b"}, b.Selected())

	click(b, 15, 15, true)
	assert.Equal(t, []string{"a", "b"}, b.Selected())

	click(b, 15, 15, true)
	assert.Equal(t, []string{"b"}, b.Selected())

	click(b, 100, 100, false)
	assert.Empty(t, b.Selected())

	// Hidden tokens ignore clicks unless IncludeHidden is set.
	click(b, 65, 15, false)
	assert.Empty(t, b.Selected())
}

func TestIncludeHidden(t *testing.T) {
	b, _, _ := newTestBoard(t, Options{IncludeHidden: true})

	click(b, 65, 15, false)
	assert.Equal(t, []string{"h"}, b.Selected())
	assert.Len(t, b.Visible(geom.V(100, 100)), 3)
}

func TestMoveSelection(t *testing.T) {
	b, store, committer := newTestBoard(t, Options{})
	click(b, 15, 15, false)
	click(b, 35, 35, true)

	b.Handle(left(gesture.Down, 15, 15))
	b.Handle(left(gesture.Move, 27, 24))

	// Unsnapped while dragging.
	assert.Equal(t, geom.V(22, 19), placed(b, "a").Position)
	assert.Equal(t, geom.V(42, 39), placed(b, "b").Position)

	b.Handle(left(gesture.Up, 27, 24))
	assert.Equal(t, geom.V(20, 20), placed(b, "a").Position)
	assert.Equal(t, geom.V(40, 40), placed(b, "b").Position)
	assert.Equal(t, []string{"a", "b"}, b.Selected())

	committer.Wait()
	got, err := store.Tokens(context.Background(), "crypt")
	require.NoError(t, err)
	assert.Equal(t, geom.V(20, 20), got[0].Position)
	assert.Equal(t, geom.V(40, 40), got[1].Position)
}

func TestMoveUnselectedToken(t *testing.T) {
	b, _, committer := newTestBoard(t, Options{})
	click(b, 35, 35, false)

	b.Handle(left(gesture.Down, 15, 15))
	b.Handle(left(gesture.Move, 35, 15))
	b.Handle(left(gesture.Up, 35, 15))
	committer.Wait()

	assert.Equal(t, []string{"a"}, b.Selected())
	assert.Equal(t, geom.V(30, 10), placed(b, "a").Position)
	assert.Equal(t, geom.V(30, 30), placed(b, "b").Position)
}

func TestMoveCancelled(t *testing.T) {
	b, store, committer := newTestBoard(t, Options{})

	b.Handle(left(gesture.Down, 15, 15))
	b.Handle(left(gesture.Move, 40, 40))
	b.Handle(left(gesture.Cancel, 40, 40))
	committer.Wait()

	assert.Equal(t, geom.V(10, 10), placed(b, "a").Position)
	got, err := store.Tokens(context.Background(), "crypt")
	require.NoError(t, err)
	assert.Equal(t, geom.V(10, 10), got[0].Position)
}

func TestClickBelowThresholdDoesNotMove(t *testing.T) {
	b, _, committer := newTestBoard(t, Options{})

	b.Handle(left(gesture.Down, 15, 15))
	b.Handle(left(gesture.Move, 18, 18))
	b.Handle(left(gesture.Up, 18, 18))
	committer.Wait()

	assert.Equal(t, geom.V(10, 10), placed(b, "a").Position)
	assert.Equal(t, []string{"a"}, b.Selected())
}

func TestSnapshotSupersedes(t *testing.T) {
	b, store, committer := newTestBoard(t, Options{})

	b.Handle(left(gesture.Down, 15, 15))
	b.Handle(left(gesture.Move, 45, 15))
	b.Handle(left(gesture.Up, 45, 15))
	committer.Wait()

	// Another client moves a somewhere else.
	ctx := context.Background()
	require.NoError(t, store.UpdatePosition(ctx, "crypt", "a", geom.V(0, 0)))
	snapshot, err := store.Tokens(ctx, "crypt")
	require.NoError(t, err)
	b.SetSnapshot(snapshot)

	assert.Equal(t, geom.V(0, 0), placed(b, "a").Position)
}

func TestSnapshotKeepsDraggedPosition(t *testing.T) {
	b, store, _ := newTestBoard(t, Options{})

	b.Handle(left(gesture.Down, 15, 15))
	b.Handle(left(gesture.Move, 45, 15))

	snapshot, err := store.Tokens(context.Background(), "crypt")
	require.NoError(t, err)
	b.SetSnapshot(snapshot)

	assert.Equal(t, geom.V(40, 10), placed(b, "a").Position)
}

func TestSnapshotDropsMissingSelection(t *testing.T) {
	b, store, _ := newTestBoard(t, Options{})
	click(b, 15, 15, false)

	ctx := context.Background()
	require.NoError(t, store.DeleteToken(ctx, "crypt", "a"))
	snapshot, err := store.Tokens(ctx, "crypt")
	require.NoError(t, err)
	b.SetSnapshot(snapshot)

	assert.Empty(t, b.Selected())
}

func TestPan(t *testing.T) {
	b, _, _ := newTestBoard(t, Options{})

	b.Handle(right(gesture.Down, 100, 100))
	b.Handle(right(gesture.Move, 130, 110))
	b.Handle(right(gesture.Move, 140, 120))
	b.Handle(right(gesture.Up, 140, 120))

	assert.Equal(t, geom.V(40, 20), b.Camera().Offset)
	assert.Empty(t, b.Selected())

	// The token a now sits 40,20 further on screen.
	assert.Equal(t, geom.R(50, 30, 10, 10), placed(b, "a").Screen)
}

func TestWheelZoomKeepsPivot(t *testing.T) {
	b, _, _ := newTestBoard(t, Options{})
	pivot := geom.V(50, 40)
	before := b.Camera().ViewportToWorld(pivot)

	assert.True(t, b.Handle(gesture.Event{Kind: gesture.Wheel, Client: pivot, Wheel: -1}))
	assert.Equal(t, 1, b.Camera().ZoomTick)
	assert.True(t, b.Camera().ViewportToWorld(pivot).ApproxEqual(before, 1e-9))

	b.Handle(gesture.Event{Kind: gesture.Wheel, Client: pivot, Wheel: 3})
	assert.Equal(t, 0, b.Camera().ZoomTick)

	assert.False(t, b.Handle(gesture.Event{Kind: gesture.Wheel, Client: pivot}))
}

func TestSelectAfterZoom(t *testing.T) {
	b, _, _ := newTestBoard(t, Options{})
	b.SetCamera(camera.Restore(camera.DefaultOptions(), geom.V(100, 0), 0))

	// a sits at viewport [110,10,10,10].
	click(b, 115, 15, false)
	assert.Equal(t, []string{"a"}, b.Selected())
}

func TestDrawArea(t *testing.T) {
	keys := []string{"zone-1", "zone-2"}
	b, store, committer := newTestBoard(t, Options{
		NewKey: func() string {
			k := keys[0]
			keys = keys[1:]
			return k
		},
	})
	assert.True(t, b.ToggleDrawMode())

	b.Handle(left(gesture.Down, 52, 52))
	b.Handle(left(gesture.Move, 71, 63))
	r, ok := b.DrawRect()
	require.True(t, ok)
	assert.Equal(t, geom.R(52, 52, 19, 11), r)
	b.Handle(left(gesture.Up, 71, 63))

	zone := placed(b, "zone-1")
	assert.Equal(t, token.KindArea, zone.Kind)
	assert.Equal(t, geom.R(50, 50, 30, 20), zone.World)

	// A thin stroke still yields at least one cell.
	b.Handle(left(gesture.Down, 100, 100))
	b.Handle(left(gesture.Move, 109, 100))
	b.Handle(left(gesture.Up, 109, 100))
	assert.Equal(t, geom.R(100, 100, 10, 10), placed(b, "zone-2").World)

	// Clicks in draw mode neither draw nor select.
	click(b, 15, 15, false)
	assert.Empty(t, b.Selected())

	committer.Wait()
	got, err := store.Tokens(context.Background(), "crypt")
	require.NoError(t, err)
	assert.Len(t, got, 5)

	assert.False(t, b.ToggleDrawMode())
	click(b, 15, 15, false)
	assert.Equal(t, []string{"a"}, b.Selected())
}

func TestAreasDrawBeneathCharacters(t *testing.T) {
	b, _, _ := newTestBoard(t, Options{NewKey: func() string { return "0-zone" }})
	b.ToggleDrawMode()
	b.Handle(left(gesture.Down, 0, 0))
	b.Handle(left(gesture.Move, 50, 50))
	b.Handle(left(gesture.Up, 50, 50))
	b.ToggleDrawMode()

	tokens := b.Tokens()
	assert.Equal(t, "0-zone", tokens[0].Key)

	// Clicking inside both picks the character on top.
	click(b, 15, 15, false)
	assert.Equal(t, []string{"a"}, b.Selected())
}

func TestToggleSelectedVisibility(t *testing.T) {
	b, store, committer := newTestBoard(t, Options{})
	assert.False(t, b.ToggleSelectedVisibility())

	click(b, 15, 15, false)
	assert.False(t, b.ToggleSelectedVisibility())
	assert.False(t, placed(b, "a").Visible)
	assert.Empty(t, b.Selected())

	committer.Wait()
	got, err := store.Tokens(context.Background(), "crypt")
	require.NoError(t, err)
	assert.False(t, got[0].Visible)
}

func TestToggleVisibilityReveals(t *testing.T) {
	b, store, committer := newTestBoard(t, Options{IncludeHidden: true})
	click(b, 65, 15, false)

	assert.True(t, b.ToggleSelectedVisibility())
	assert.True(t, placed(b, "h").Visible)
	committer.Wait()

	got, err := store.Tokens(context.Background(), "crypt")
	require.NoError(t, err)
	assert.True(t, got[2].Visible)
}

func TestVisible(t *testing.T) {
	b, _, _ := newTestBoard(t, Options{})

	vis := b.Visible(geom.V(25, 25))
	require.Len(t, vis, 1)
	assert.Equal(t, "a", vis[0].Key)

	assert.Len(t, b.Visible(geom.V(100, 100)), 2)
}

func TestResetCamera(t *testing.T) {
	b, _, _ := newTestBoard(t, Options{})
	b.Handle(gesture.Event{Kind: gesture.Wheel, Client: geom.V(10, 10), Wheel: -1})
	b.ResetCamera()
	assert.Equal(t, camera.New(camera.DefaultOptions()), b.Camera())
}

func TestNewRejectsBadScene(t *testing.T) {
	committer := token.NewCommitter(token.NewMemoryStore(), log.New(io.Discard), 0)
	assert.Panics(t, func() { New(token.Scene{ID: "x"}, committer, Options{}) })
	assert.Panics(t, func() { New(testScene, nil, Options{}) })
}
