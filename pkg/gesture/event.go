package gesture

import (
	"fmt"

	"github.com/matzehuels/battlemap/pkg/geom"
)

// Kind is the type of a raw pointer event.
type Kind int

const (
	Down Kind = iota
	Move
	Up
	Cancel
	// Blur reports that the window lost focus mid-gesture.
	Blur
	// Wheel carries a scroll step in Event.Wheel.
	Wheel
)

func (k Kind) String() string {
	switch k {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	case Cancel:
		return "cancel"
	case Blur:
		return "blur"
	case Wheel:
		return "wheel"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Button is a bit set of pointer buttons.
type Button uint8

const (
	ButtonLeft Button = 1 << iota
	ButtonRight
	ButtonMiddle

	// AnyButton matches every button.
	AnyButton Button = 0
)

// Has reports whether b contains every button in o.
func (b Button) Has(o Button) bool { return b&o == o }

// Event is a raw pointer event in viewport coordinates.
type Event struct {
	Kind    Kind
	Client  geom.Vec
	Buttons Button

	// Wheel is the scroll step for Wheel events: negative scrolls up.
	Wheel int

	// Shift reports the shift modifier. Board uses it for additive clicks.
	Shift bool
}

// XY makes Event geom.Pointlike.
func (e Event) XY() (float64, float64) { return e.Client.X, e.Client.Y }
