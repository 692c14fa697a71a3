// Package drawarea turns a drag gesture into one committed rectangle, e.g.
// the footprint of a new area token. It follows the same gesture shape as
// package selection and is driven by a gesture.Tracker, so clicks below the
// drag threshold never commit anything.
package drawarea

import "github.com/matzehuels/battlemap/pkg/geom"

// CommitFunc receives the finished rect.
type CommitFunc func(geom.Rect)

// Area holds the rect being drawn.
type Area struct {
	commit CommitFunc

	drawing    bool
	start, end geom.Vec
}

// New returns an Area that calls commit once per completed drag.
func New(commit CommitFunc) *Area {
	return &Area{commit: commit}
}

// OnPointerDown discards any rect in progress.
func (a *Area) OnPointerDown(geom.Vec) { a.drawing = false }

// OnDragStart seeds a zero-size rect at p.
func (a *Area) OnDragStart(p geom.Vec) {
	a.drawing = true
	a.start, a.end = p, p
}

// OnDrag moves the corner opposite the start to p.
func (a *Area) OnDrag(p geom.Vec) {
	if !a.drawing {
		a.OnDragStart(p)
	}
	a.end = p
}

// OnDragEnd emits the rect, if one exists, and clears it.
func (a *Area) OnDragEnd(geom.Vec) {
	if !a.drawing {
		return
	}
	r := a.rect()
	a.drawing = false
	if a.commit != nil {
		a.commit(r)
	}
}

// OnDragCancel clears the rect without emitting it.
func (a *Area) OnDragCancel() { a.drawing = false }

// Rect returns the rect in progress, if any.
func (a *Area) Rect() (geom.Rect, bool) {
	if !a.drawing {
		return geom.Rect{}, false
	}
	return a.rect(), true
}

func (a *Area) rect() geom.Rect {
	return geom.R(a.start.X, a.start.Y, 0, 0).WithEnd(a.end)
}
