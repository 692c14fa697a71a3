// Package board is one interactive battle-map session.
//
// A Board owns the camera, the selection, the area drawer and the pointer
// trackers that drive them, plus the latest token snapshot read from the
// store. Raw pointer events in viewport space go in through [Board.Handle];
// the board converts them to world space, updates its state synchronously
// and hands any resulting writes to a [token.Committer] without waiting.
//
// Button mapping:
//   - right drag pans the camera
//   - wheel zooms about the pointer
//   - left drag on a token moves the selection, snapped to the grid on release
//   - left drag on empty space drag-selects
//   - left drag in draw mode draws an area token
//
// A Board is not safe for concurrent use. Store results arrive through
// [Board.SetSnapshot], which supersedes any locally computed position once
// no drag is in progress.
package board

import (
	"cmp"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/battlemap/pkg/camera"
	"github.com/matzehuels/battlemap/pkg/drawarea"
	bmerrors "github.com/matzehuels/battlemap/pkg/errors"
	"github.com/matzehuels/battlemap/pkg/geom"
	"github.com/matzehuels/battlemap/pkg/gesture"
	"github.com/matzehuels/battlemap/pkg/grid"
	"github.com/matzehuels/battlemap/pkg/selection"
	"github.com/matzehuels/battlemap/pkg/token"
)

// Options configures a Board.
type Options struct {
	Camera camera.Options

	// DragThreshold is passed to every gesture tracker.
	DragThreshold float64

	// IncludeHidden makes hidden tokens selectable and listed by Visible.
	// Game masters need this to reveal tokens again.
	IncludeHidden bool

	// NewKey generates keys for drawn area tokens. Defaults to uuid.NewString.
	NewKey func() string

	Logger *log.Logger
}

// Placed is a token as the board currently shows it.
type Placed struct {
	token.Token

	// World is the token's bounds including any uncommitted move.
	World geom.Rect

	// Screen is World in viewport space.
	Screen geom.Rect

	Selected bool
}

// Board is a single map view.
type Board struct {
	scene     token.Scene
	committer *token.Committer
	logger    *log.Logger
	opts      Options

	cam  camera.Camera
	sel  *selection.Store[string]
	draw *drawarea.Area

	pan  *gesture.Tracker
	pick *gesture.Tracker
	pen  *gesture.Tracker

	picker *picker

	tokens     []token.Token
	optimistic map[string]geom.Vec
	drawMode   bool
	shift      bool
}

// New creates a board for scene. committer receives every write.
func New(scene token.Scene, committer *token.Committer, opts Options) *Board {
	bmerrors.Assert(scene.CellSize > 0, "board: scene %q has cell size %g", scene.ID, scene.CellSize)
	bmerrors.MustPresent(committer, "board committer")

	if opts.NewKey == nil {
		opts.NewKey = uuid.NewString
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	b := &Board{
		scene:      scene,
		committer:  committer,
		logger:     opts.Logger,
		opts:       opts,
		cam:        camera.New(opts.Camera),
		sel:        selection.New[string](),
		optimistic: make(map[string]geom.Vec),
	}
	b.draw = drawarea.New(b.commitArea)
	b.picker = &picker{b: b}

	b.pan = gesture.NewTracker(&panner{b: b}, gesture.Options{
		Name: "pan", Threshold: opts.DragThreshold, Buttons: gesture.ButtonRight,
	})
	b.pick = gesture.NewTracker(b.picker, gesture.Options{
		Name: "select", Threshold: opts.DragThreshold, Buttons: gesture.ButtonLeft,
	})
	b.pen = gesture.NewTracker(worldHandler{b: b, h: b.draw}, gesture.Options{
		Name: "draw", Threshold: opts.DragThreshold, Buttons: gesture.ButtonLeft,
	})
	b.pen.SetEnabled(false)
	return b
}

// Scene returns the scene the board shows.
func (b *Board) Scene() token.Scene { return b.scene }

// Camera returns the current camera.
func (b *Board) Camera() camera.Camera { return b.cam }

// SetCamera replaces the camera, e.g. to centre the map on first render.
func (b *Board) SetCamera(c camera.Camera) { b.cam = c }

// ResetCamera returns to the origin at zoom tick 0.
func (b *Board) ResetCamera() { b.cam = b.cam.Reset() }

// Handle routes one raw pointer event and reports whether anything consumed
// it.
func (b *Board) Handle(ev gesture.Event) bool {
	switch ev.Kind {
	case gesture.Wheel:
		return b.zoom(ev)
	case gesture.Down:
		b.shift = ev.Shift
	}

	handled := false
	for _, tr := range []*gesture.Tracker{b.pan, b.pick, b.pen} {
		if tr.Handle(ev) {
			handled = true
		}
	}
	return handled
}

func (b *Board) zoom(ev gesture.Event) bool {
	if ev.Wheel == 0 {
		return false
	}
	delta := 1
	if ev.Wheel > 0 {
		delta = -1
	}
	b.cam = b.cam.ZoomedBy(delta, ev.Client)
	return true
}

// Dragging reports whether any gesture is past its threshold.
func (b *Board) Dragging() bool {
	return b.pan.Dragging() || b.pick.Dragging() || b.pen.Dragging()
}

// DrawMode reports whether left drags draw areas.
func (b *Board) DrawMode() bool { return b.drawMode }

// ToggleDrawMode switches left drags between selecting and drawing. Any
// left-button gesture in progress is cancelled.
func (b *Board) ToggleDrawMode() bool {
	b.drawMode = !b.drawMode
	b.pick.SetEnabled(!b.drawMode)
	b.pen.SetEnabled(b.drawMode)
	return b.drawMode
}

// ============================================================================
// Snapshot
// ============================================================================

// SetSnapshot replaces the token read model. Positions computed locally for
// tokens that are not being dragged are discarded, and selected keys that no
// longer exist are deselected.
func (b *Board) SetSnapshot(tokens []token.Token) {
	b.tokens = slices.Clone(tokens)
	slices.SortStableFunc(b.tokens, drawOrder)

	moving := b.picker.movingKeys()
	for key := range b.optimistic {
		if !moving[key] {
			delete(b.optimistic, key)
		}
	}

	present := make(map[string]bool, len(b.tokens))
	for _, t := range b.tokens {
		present[t.Key] = true
	}
	for _, key := range b.sel.Selected() {
		if !present[key] {
			b.sel.SetItemSelected(key, false)
		}
	}
}

// drawOrder puts areas beneath characters, then orders by key.
func drawOrder(a, c token.Token) int {
	if a.Kind != c.Kind {
		if a.Kind == token.KindArea {
			return -1
		}
		if c.Kind == token.KindArea {
			return 1
		}
	}
	return cmp.Compare(a.Key, c.Key)
}

func (b *Board) token(key string) (token.Token, bool) {
	i := slices.IndexFunc(b.tokens, func(t token.Token) bool { return t.Key == key })
	if i < 0 {
		return token.Token{}, false
	}
	return b.tokens[i], true
}

// position returns the token position including uncommitted moves.
func (b *Board) position(t token.Token) geom.Vec {
	if p, ok := b.optimistic[t.Key]; ok {
		return p
	}
	return t.Position
}

func (b *Board) worldBounds(t token.Token) geom.Rect {
	return t.Bounds(b.scene.CellSize).WithPosition(b.position(t))
}

func (b *Board) interactive(t token.Token) bool {
	return t.Visible || b.opts.IncludeHidden
}

// candidates yields the bounds of every token a selection can reach.
func (b *Board) candidates(yield func(string, geom.Rect) bool) {
	for _, t := range b.tokens {
		if !b.interactive(t) {
			continue
		}
		if !yield(t.Key, b.worldBounds(t)) {
			return
		}
	}
}

// tokenAt returns the top-most interactive token containing the world
// point p.
func (b *Board) tokenAt(p geom.Vec) (string, bool) {
	for _, t := range slices.Backward(b.tokens) {
		if b.interactive(t) && b.worldBounds(t).Contains(p) {
			return t.Key, true
		}
	}
	return "", false
}

// ============================================================================
// Queries
// ============================================================================

// Tokens returns every token in draw order as currently placed.
func (b *Board) Tokens() []Placed {
	out := make([]Placed, 0, len(b.tokens))
	for _, t := range b.tokens {
		world := b.worldBounds(t)
		t.Position = world.Position
		out = append(out, Placed{
			Token:    t,
			World:    world,
			Screen:   b.cam.WorldRectToViewport(world),
			Selected: b.sel.IsSelected(t.Key),
		})
	}
	return out
}

// Visible returns the interactive tokens whose screen rect overlaps a
// viewport of the given size anchored at the origin.
func (b *Board) Visible(viewport geom.Vec) []Placed {
	view := geom.RectFrom(geom.PositionSize{Size: viewport})
	var out []Placed
	for _, p := range b.Tokens() {
		if b.interactive(p.Token) && p.Screen.Overlaps(view) {
			out = append(out, p)
		}
	}
	return out
}

// Selected returns the selected keys in sorted order.
func (b *Board) Selected() []string {
	keys := b.sel.Selected()
	slices.Sort(keys)
	return keys
}

// SelectionRect returns the drag-select rectangle in viewport space.
func (b *Board) SelectionRect() (geom.Rect, bool) {
	r, ok := b.sel.AreaRect()
	if !ok {
		return geom.Rect{}, false
	}
	return b.cam.WorldRectToViewport(r), true
}

// DrawRect returns the area being drawn in viewport space.
func (b *Board) DrawRect() (geom.Rect, bool) {
	r, ok := b.draw.Rect()
	if !ok {
		return geom.Rect{}, false
	}
	return b.cam.WorldRectToViewport(r), true
}

// ============================================================================
// Commands
// ============================================================================

// ToggleSelectedVisibility hides the selection when any selected token is
// shown, otherwise reveals all of it. It returns the new visibility.
func (b *Board) ToggleSelectedVisibility() bool {
	keys := b.Selected()
	if len(keys) == 0 {
		return false
	}

	visible := true
	for _, key := range keys {
		if t, ok := b.token(key); ok && t.Visible {
			visible = false
			break
		}
	}

	for i := range b.tokens {
		t := &b.tokens[i]
		if !b.sel.IsSelected(t.Key) || t.Visible == visible {
			continue
		}
		t.Visible = visible
		b.committer.UpdateVisibility(b.scene.ID, t.Key, visible)
		if !b.interactive(*t) {
			b.sel.SetItemSelected(t.Key, false)
		}
	}
	b.logger.Debug("toggled visibility", "scene", b.scene.ID, "tokens", len(keys), "visible", visible)
	return visible
}

// commitArea turns a drawn world rect into an area token.
func (b *Board) commitArea(r geom.Rect) {
	r = grid.SnapArea(r, b.scene.CellSize)

	size := r.Size
	t := token.Token{
		Key:      b.opts.NewKey(),
		Scene:    b.scene.ID,
		Kind:     token.KindArea,
		Position: r.Position,
		Size:     &size,
		Visible:  true,
	}
	b.tokens = append(b.tokens, t)
	slices.SortStableFunc(b.tokens, drawOrder)
	b.committer.Create(t)
	b.logger.Debug("drew area", "scene", b.scene.ID, "token", t.Key, "rect", r)
}
