// Package selection implements drag-select: a set of selected item keys plus
// the rubber-band rectangle of the drag in progress.
//
// A [Store] implements gesture.Handler, so a gesture.Tracker can drive it
// directly. The store does not know where items are; after every change of
// the area the owner runs [Store.HitTest] over the candidate items' bounding
// rects, which marks each item selected exactly when its rect overlaps the
// normalized area (strict overlap, see geom.Rect.Overlaps).
//
//	sel := selection.New[string]()
//	tracker := gesture.NewTracker(sel, gesture.Options{Buttons: gesture.ButtonLeft})
//	// per pointer event:
//	tracker.Handle(ev)
//	if sel.AreaChanged() {
//	    sel.HitTest(maps.All(tokenBounds))
//	}
package selection

import (
	"iter"
	"maps"

	"github.com/matzehuels/battlemap/pkg/geom"
)

// Area is the in-progress selection rectangle. Start is fixed at drag start;
// End follows the pointer.
type Area struct {
	Start geom.Vec `json:"start"`
	End   geom.Vec `json:"end"`
}

// Rect normalizes the area so a drag in any direction yields the same rect.
func (a Area) Rect() geom.Rect {
	return geom.RectFrom(geom.Corners{TopLeft: a.Start, BottomRight: a.End})
}

// Store holds the selection set and the optional drag area. The zero value is
// not usable; create one with New. A Store is owned by a single view and is
// not safe for concurrent use.
type Store[K comparable] struct {
	selected map[K]struct{}
	area     *Area
	dirty    bool
}

// New returns an empty store.
func New[K comparable]() *Store[K] {
	return &Store[K]{selected: make(map[K]struct{})}
}

// OnPointerDown starts a fresh, non-additive gesture: the area and the
// selection are both cleared.
func (s *Store[K]) OnPointerDown(geom.Vec) {
	s.area = nil
	s.Clear()
}

// OnDragStart seeds a zero-size area at p.
func (s *Store[K]) OnDragStart(p geom.Vec) {
	s.area = &Area{Start: p, End: p}
	s.dirty = true
}

// OnDrag moves the area's end to p, leaving its start fixed.
func (s *Store[K]) OnDrag(p geom.Vec) {
	if s.area == nil {
		s.OnDragStart(p)
		return
	}
	s.area.End = p
	s.dirty = true
}

// OnDragEnd clears the area. The selection stays as last computed.
func (s *Store[K]) OnDragEnd(geom.Vec) { s.area = nil }

// OnDragCancel clears the area without further changes to the selection.
func (s *Store[K]) OnDragCancel() { s.area = nil }

// Dragging reports whether an area is active.
func (s *Store[K]) Dragging() bool { return s.area != nil }

// Area returns the active area, if any.
func (s *Store[K]) Area() (Area, bool) {
	if s.area == nil {
		return Area{}, false
	}
	return *s.area, true
}

// AreaRect returns the normalized active area, if any.
func (s *Store[K]) AreaRect() (geom.Rect, bool) {
	a, ok := s.Area()
	if !ok {
		return geom.Rect{}, false
	}
	return a.Rect(), true
}

// AreaChanged reports whether the area moved since the last HitTest.
func (s *Store[K]) AreaChanged() bool { return s.dirty && s.area != nil }

// SetItemSelected adds or removes one item without touching the others.
// It is idempotent.
func (s *Store[K]) SetItemSelected(item K, selected bool) {
	if selected {
		s.selected[item] = struct{}{}
	} else {
		delete(s.selected, item)
	}
}

// IsSelected reports whether item is in the selection.
func (s *Store[K]) IsSelected(item K) bool {
	_, ok := s.selected[item]
	return ok
}

// Clear empties the selection. The area is left alone.
func (s *Store[K]) Clear() { clear(s.selected) }

// Len returns the number of selected items.
func (s *Store[K]) Len() int { return len(s.selected) }

// Selected returns the selected keys in unspecified order.
func (s *Store[K]) Selected() []K {
	out := make([]K, 0, len(s.selected))
	for k := range s.selected {
		out = append(out, k)
	}
	return out
}

// All iterates the selected keys in unspecified order.
func (s *Store[K]) All() iter.Seq[K] { return maps.Keys(s.selected) }

// HitTest marks every candidate selected exactly when its bounds overlap the
// active area. Without an area it does nothing.
func (s *Store[K]) HitTest(items iter.Seq2[K, geom.Rect]) {
	area, ok := s.AreaRect()
	if !ok {
		return
	}
	for key, bounds := range items {
		s.SetItemSelected(key, bounds.Overlaps(area))
	}
	s.dirty = false
}
