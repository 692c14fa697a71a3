package gesture

import (
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/matzehuels/battlemap/pkg/geom"
)

type recorder struct {
	calls []string
}

func (r *recorder) OnPointerDown(p geom.Vec) { r.calls = append(r.calls, fmt.Sprintf("down%v", p)) }
func (r *recorder) OnDragStart(p geom.Vec)   { r.calls = append(r.calls, fmt.Sprintf("start%v", p)) }
func (r *recorder) OnDrag(p geom.Vec)        { r.calls = append(r.calls, fmt.Sprintf("drag%v", p)) }
func (r *recorder) OnDragEnd(p geom.Vec)     { r.calls = append(r.calls, fmt.Sprintf("end%v", p)) }
func (r *recorder) OnDragCancel()            { r.calls = append(r.calls, "cancel") }
func (r *recorder) OnClick(p geom.Vec, shift bool) {
	r.calls = append(r.calls, fmt.Sprintf("click%v/%t", p, shift))
}

func ev(kind Kind, x, y float64, b Button) Event {
	return Event{Kind: kind, Client: geom.V(x, y), Buttons: b}
}

func TestTracker(t *testing.T) {
	Convey("Given a left-button tracker with an 8px threshold", t, func() {
		rec := &recorder{}
		tr := NewTracker(rec, Options{Name: "test", Threshold: 8, Buttons: ButtonLeft})

		So(tr.State(), ShouldEqual, Idle)
		So(tr.Attached(), ShouldBeFalse)

		Convey("moves before any press are not consumed", func() {
			So(tr.Handle(ev(Move, 5, 5, 0)), ShouldBeFalse)
			So(rec.calls, ShouldBeEmpty)
		})

		Convey("a press with the wrong button is ignored", func() {
			So(tr.Handle(ev(Down, 0, 0, ButtonRight)), ShouldBeFalse)
			So(tr.Attached(), ShouldBeFalse)
		})

		Convey("a press attaches listeners", func() {
			So(tr.Handle(ev(Down, 10, 10, ButtonLeft)), ShouldBeTrue)
			So(tr.State(), ShouldEqual, Pressed)
			So(tr.Attached(), ShouldBeTrue)
			So(rec.calls, ShouldResemble, []string{"down(10, 10)"})

			Convey("moves within the threshold do not start a drag", func() {
				tr.Handle(ev(Move, 15, 14, ButtonLeft))
				So(tr.State(), ShouldEqual, Pressed)

				Convey("and releasing is a click", func() {
					tr.Handle(Event{Kind: Up, Client: geom.V(15, 14), Shift: true})
					So(tr.Attached(), ShouldBeFalse)
					So(rec.calls, ShouldResemble, []string{"down(10, 10)", "click(15, 14)/true"})
				})
			})

			Convey("crossing the threshold starts a drag from the press point", func() {
				tr.Handle(ev(Move, 20, 10, ButtonLeft))
				So(tr.Dragging(), ShouldBeTrue)
				tr.Handle(ev(Move, 30, 12, ButtonLeft))
				So(rec.calls, ShouldResemble, []string{
					"down(10, 10)", "start(10, 10)", "drag(20, 10)", "drag(30, 12)",
				})

				Convey("release ends the drag and detaches", func() {
					tr.Handle(ev(Up, 31, 12, 0))
					So(rec.calls[len(rec.calls)-1], ShouldEqual, "end(31, 12)")
					So(tr.Attached(), ShouldBeFalse)

					Convey("later moves are no longer consumed", func() {
						So(tr.Handle(ev(Move, 50, 50, ButtonLeft)), ShouldBeFalse)
					})
				})

				Convey("pointer cancel aborts without ending", func() {
					So(tr.Handle(ev(Cancel, 0, 0, 0)), ShouldBeTrue)
					So(rec.calls[len(rec.calls)-1], ShouldEqual, "cancel")
					So(tr.Attached(), ShouldBeFalse)
				})

				Convey("window blur aborts without ending", func() {
					So(tr.Handle(ev(Blur, 0, 0, 0)), ShouldBeTrue)
					So(rec.calls[len(rec.calls)-1], ShouldEqual, "cancel")
					So(tr.State(), ShouldEqual, Idle)
				})

				Convey("a second press abandons the old drag", func() {
					tr.Handle(ev(Down, 100, 100, ButtonLeft))
					So(rec.calls[len(rec.calls)-2:], ShouldResemble, []string{"cancel", "down(100, 100)"})
					So(tr.State(), ShouldEqual, Pressed)
				})

				Convey("disabling the tracker cancels the drag", func() {
					tr.SetEnabled(false)
					So(rec.calls[len(rec.calls)-1], ShouldEqual, "cancel")
					So(tr.Handle(ev(Down, 0, 0, ButtonLeft)), ShouldBeFalse)
				})
			})

			Convey("cancel before the threshold detaches silently", func() {
				tr.Handle(ev(Cancel, 0, 0, 0))
				So(tr.Attached(), ShouldBeFalse)
				So(rec.calls, ShouldResemble, []string{"down(10, 10)"})
			})
		})
	})
}

func TestTrackerAnyButtonAndDefaults(t *testing.T) {
	Convey("A tracker with zero options", t, func() {
		rec := &recorder{}
		tr := NewTracker(rec, Options{})

		Convey("accepts any button and uses the default threshold", func() {
			So(tr.Handle(ev(Down, 0, 0, ButtonMiddle)), ShouldBeTrue)
			tr.Handle(ev(Move, DefaultThreshold, 0, ButtonMiddle))
			So(tr.Dragging(), ShouldBeFalse)
			tr.Handle(ev(Move, DefaultThreshold+0.5, 0, ButtonMiddle))
			So(tr.Dragging(), ShouldBeTrue)
		})
	})

	Convey("A tracker with a negative threshold drags on first move", t, func() {
		tr := NewTracker(&recorder{}, Options{Threshold: -1})
		tr.Handle(ev(Down, 0, 0, ButtonLeft))
		tr.Handle(ev(Move, 0, 0, ButtonLeft))
		So(tr.Dragging(), ShouldBeTrue)
	})
}

func TestButtonHas(t *testing.T) {
	b := ButtonLeft | ButtonRight
	if !b.Has(ButtonLeft) || b.Has(ButtonMiddle) {
		t.Errorf("Has mismatch for %08b", b)
	}
	if Wheel.String() != "wheel" || Kind(42).String() != "Kind(42)" {
		t.Errorf("unexpected kind strings")
	}
}
