// Package gesture turns raw pointer events into drag gestures.
//
// A [Tracker] is a small explicit state machine:
//
//	idle ──down──▶ pressed ──move past threshold──▶ dragging
//	  ▲               │                                │
//	  └──up/cancel/blur┘◀──────────up/cancel/blur──────┘
//
// Move, up and cancel events are only consumed while the tracker is
// attached, which is exactly the span between a matching pointer-down and
// the end of the gesture. Releasing, cancelling, or blurring always detaches,
// so an interrupted drag can never leak into the next gesture.
//
// Handlers receive the transitions: [Handler.OnPointerDown] on press,
// [Handler.OnDragStart] once the pointer has travelled more than the
// threshold, [Handler.OnDrag] for every subsequent move (including the one
// that crossed the threshold), then either [Handler.OnDragEnd] or
// [Handler.OnDragCancel]. A press that never crosses the threshold is a
// click and never produces drag callbacks.
package gesture

import (
	"time"

	"github.com/matzehuels/battlemap/pkg/geom"
	"github.com/matzehuels/battlemap/pkg/observability"
)

// DefaultThreshold is the pointer travel, in viewport units, that promotes a
// press into a drag.
const DefaultThreshold = 8.0

// Handler receives gesture transitions.
type Handler interface {
	OnPointerDown(p geom.Vec)
	OnDragStart(p geom.Vec)
	OnDrag(p geom.Vec)
	OnDragEnd(p geom.Vec)
	OnDragCancel()
}

// Clicker is implemented by handlers that want presses released below the
// drag threshold.
type Clicker interface {
	OnClick(p geom.Vec, shift bool)
}

// State is the tracker's position in the state machine.
type State int

const (
	Idle State = iota
	Pressed
	Dragging
)

func (s State) String() string {
	switch s {
	case Pressed:
		return "pressed"
	case Dragging:
		return "dragging"
	}
	return "idle"
}

// Options configures a Tracker.
type Options struct {
	// Name identifies the gesture in observability hooks.
	Name string

	// Threshold is the travel distance that promotes a press into a drag.
	// Zero selects DefaultThreshold; use a negative value to start dragging
	// on the first move.
	Threshold float64

	// Buttons filters which presses start a gesture. AnyButton accepts all.
	Buttons Button
}

// Tracker is the pointer state machine for one gesture kind.
type Tracker struct {
	opts    Options
	handler Handler

	state   State
	start   geom.Vec
	last    geom.Vec
	began   time.Time
	enabled bool
}

// NewTracker returns an idle tracker delivering transitions to h.
func NewTracker(h Handler, opts Options) *Tracker {
	if opts.Threshold == 0 {
		opts.Threshold = DefaultThreshold
	}
	return &Tracker{opts: opts, handler: h, enabled: true}
}

// State returns the current state.
func (t *Tracker) State() State { return t.state }

// Attached reports whether move/up/cancel listeners are active.
func (t *Tracker) Attached() bool { return t.state != Idle }

// Dragging reports whether a drag is in progress.
func (t *Tracker) Dragging() bool { return t.state == Dragging }

// Start returns the press position of the current gesture.
func (t *Tracker) Start() geom.Vec { return t.start }

// Last returns the most recent pointer position seen by the gesture.
func (t *Tracker) Last() geom.Vec { return t.last }

// SetEnabled toggles whether new presses are accepted. Disabling cancels a
// gesture in progress.
func (t *Tracker) SetEnabled(on bool) {
	if !on && t.Attached() {
		t.cancel()
	}
	t.enabled = on
}

// Enabled reports whether new presses are accepted.
func (t *Tracker) Enabled() bool { return t.enabled }

// Handle feeds one event through the state machine and reports whether the
// tracker consumed it.
func (t *Tracker) Handle(ev Event) bool {
	switch ev.Kind {
	case Down:
		return t.down(ev)
	case Move:
		return t.move(ev)
	case Up:
		return t.up(ev)
	case Cancel, Blur:
		if !t.Attached() {
			return false
		}
		t.cancel()
		return true
	}
	return false
}

func (t *Tracker) accepts(b Button) bool {
	if t.opts.Buttons == AnyButton {
		return true
	}
	return b&t.opts.Buttons != 0
}

func (t *Tracker) down(ev Event) bool {
	if !t.enabled || !t.accepts(ev.Buttons) {
		return false
	}
	if t.Attached() {
		// A second press without a release: the old gesture is abandoned.
		t.cancel()
	}
	t.state = Pressed
	t.start = ev.Client
	t.last = ev.Client
	t.handler.OnPointerDown(ev.Client)
	return true
}

func (t *Tracker) move(ev Event) bool {
	if !t.Attached() {
		return false
	}
	t.last = ev.Client
	if t.state == Pressed {
		if ev.Client.DistanceTo(t.start) <= t.opts.Threshold {
			return true
		}
		t.state = Dragging
		t.began = time.Now()
		t.handler.OnDragStart(t.start)
		observability.Gesture().OnDragStart(t.opts.Name)
	}
	t.handler.OnDrag(ev.Client)
	return true
}

func (t *Tracker) up(ev Event) bool {
	if !t.Attached() {
		return false
	}
	wasDragging := t.state == Dragging
	t.detach()
	if wasDragging {
		t.handler.OnDragEnd(ev.Client)
		observability.Gesture().OnDragEnd(t.opts.Name, time.Since(t.began), false)
	} else if c, ok := t.handler.(Clicker); ok {
		c.OnClick(ev.Client, ev.Shift)
	}
	return true
}

func (t *Tracker) cancel() {
	wasDragging := t.state == Dragging
	t.detach()
	if wasDragging {
		t.handler.OnDragCancel()
		observability.Gesture().OnDragEnd(t.opts.Name, time.Since(t.began), true)
	}
}

func (t *Tracker) detach() {
	t.state = Idle
}
