package board

import (
	"github.com/matzehuels/battlemap/pkg/geom"
	"github.com/matzehuels/battlemap/pkg/gesture"
	"github.com/matzehuels/battlemap/pkg/grid"
)

// worldHandler converts viewport points to world space before delegating.
type worldHandler struct {
	b *Board
	h gesture.Handler
}

func (w worldHandler) world(p geom.Vec) geom.Vec { return w.b.cam.ViewportToWorld(p) }

func (w worldHandler) OnPointerDown(p geom.Vec) { w.h.OnPointerDown(w.world(p)) }
func (w worldHandler) OnDragStart(p geom.Vec)   { w.h.OnDragStart(w.world(p)) }
func (w worldHandler) OnDrag(p geom.Vec)        { w.h.OnDrag(w.world(p)) }
func (w worldHandler) OnDragEnd(p geom.Vec)     { w.h.OnDragEnd(w.world(p)) }
func (w worldHandler) OnDragCancel()            { w.h.OnDragCancel() }

// panner moves the camera by the pointer's viewport travel.
type panner struct {
	b    *Board
	last geom.Vec
}

func (p *panner) OnPointerDown(at geom.Vec) { p.last = at }
func (p *panner) OnDragStart(at geom.Vec)   { p.last = at }

func (p *panner) OnDrag(at geom.Vec) {
	p.b.cam = p.b.cam.MovedBy(at.Minus(p.last))
	p.last = at
}

func (p *panner) OnDragEnd(at geom.Vec) { p.OnDrag(at) }
func (p *panner) OnDragCancel()         {}

// pickMode is what a left press turned into.
type pickMode int

const (
	pickSelect pickMode = iota
	pickMove
)

// picker runs drag-select on empty space and moves the selection when the
// press lands on a token.
type picker struct {
	b    *Board
	mode pickMode

	// pressed is the token under the press, if any.
	pressed string

	// additive holds the selection a shift drag-select started from.
	additive []string

	// origins are the pre-drag positions of the tokens being moved.
	origins map[string]geom.Vec
	from    geom.Vec
}

func (p *picker) world(at geom.Vec) geom.Vec { return p.b.cam.ViewportToWorld(at) }

func (p *picker) movingKeys() map[string]bool {
	out := make(map[string]bool, len(p.origins))
	for key := range p.origins {
		out[key] = true
	}
	return out
}

func (p *picker) OnPointerDown(at geom.Vec) {
	b := p.b
	w := p.world(at)
	p.origins = nil
	p.additive = nil

	if key, ok := b.tokenAt(w); ok {
		p.mode = pickMove
		p.pressed = key
		return
	}

	p.mode = pickSelect
	p.pressed = ""
	if b.shift {
		p.additive = b.sel.Selected()
		b.sel.OnDragCancel()
		return
	}
	b.sel.OnPointerDown(w)
}

func (p *picker) OnDragStart(at geom.Vec) {
	b := p.b
	w := p.world(at)

	if p.mode == pickSelect {
		b.sel.OnDragStart(w)
		return
	}

	if !b.sel.IsSelected(p.pressed) {
		if !b.shift {
			b.sel.Clear()
		}
		b.sel.SetItemSelected(p.pressed, true)
	}
	p.from = w
	p.origins = make(map[string]geom.Vec, b.sel.Len())
	for key := range b.sel.All() {
		if t, ok := b.token(key); ok {
			p.origins[key] = b.position(t)
		}
	}
}

func (p *picker) OnDrag(at geom.Vec) {
	b := p.b
	w := p.world(at)

	if p.mode == pickSelect {
		b.sel.OnDrag(w)
		if b.sel.AreaChanged() {
			b.sel.HitTest(b.candidates)
			for _, key := range p.additive {
				b.sel.SetItemSelected(key, true)
			}
		}
		return
	}

	delta := w.Minus(p.from)
	for key, origin := range p.origins {
		b.optimistic[key] = origin.Plus(delta)
	}
}

func (p *picker) OnDragEnd(at geom.Vec) {
	b := p.b
	if p.mode == pickSelect {
		p.OnDrag(at)
		b.sel.OnDragEnd(p.world(at))
		p.additive = nil
		return
	}

	p.OnDrag(at)
	cell := b.scene.CellSize
	for key := range p.origins {
		pos := grid.Round(b.optimistic[key], cell)
		b.optimistic[key] = pos
		b.committer.UpdatePosition(b.scene.ID, key, pos)
	}
	b.logger.Debug("moved tokens", "scene", b.scene.ID, "tokens", len(p.origins))
	p.origins = nil
}

func (p *picker) OnDragCancel() {
	b := p.b
	if p.mode == pickSelect {
		b.sel.OnDragCancel()
		p.additive = nil
		return
	}
	for key, origin := range p.origins {
		b.optimistic[key] = origin
	}
	p.origins = nil
}

// OnClick selects the token under the pointer. Shift toggles it instead.
func (p *picker) OnClick(at geom.Vec, shift bool) {
	b := p.b
	key, ok := b.tokenAt(p.world(at))
	switch {
	case !ok:
		if !shift {
			b.sel.Clear()
		}
	case shift:
		b.sel.SetItemSelected(key, !b.sel.IsSelected(key))
	default:
		b.sel.Clear()
		b.sel.SetItemSelected(key, true)
	}
}
