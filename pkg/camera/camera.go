// Package camera implements the pan-and-zoom transform between world space
// (where tokens live) and viewport space (screen pixels or terminal cells).
//
// A [Camera] is an immutable value: a pan offset in viewport units and an
// integer zoom tick. The scale is ZoomBase^ZoomTick, so each tick is a
// geometric step. [Camera.MovedBy] and [Camera.ZoomedBy] return new cameras;
// the owner replaces its camera wholesale after every gesture.
//
//	cam := camera.New(camera.DefaultOptions())
//	cam = cam.MovedBy(dragDelta)
//	cam = cam.ZoomedBy(+1, pointer) // world point under pointer stays put
//	world := cam.ViewportToWorld(pointer)
package camera

import (
	"math"

	"github.com/matzehuels/battlemap/pkg/geom"
)

const (
	// DefaultZoomBase is the scale factor applied per zoom tick.
	DefaultZoomBase = 1.3

	// DefaultZoomTickLimit bounds the zoom tick to [-limit, limit].
	DefaultZoomTickLimit = 10
)

// Options fixes the zoom curve. The zero value selects the defaults.
type Options struct {
	ZoomBase      float64 `toml:"zoom_base" json:"zoomBase"`
	ZoomTickLimit int     `toml:"zoom_tick_limit" json:"zoomTickLimit"`
}

// DefaultOptions returns the default zoom curve.
func DefaultOptions() Options {
	return Options{ZoomBase: DefaultZoomBase, ZoomTickLimit: DefaultZoomTickLimit}
}

func (o Options) normalized() Options {
	if o.ZoomBase <= 1 {
		o.ZoomBase = DefaultZoomBase
	}
	if o.ZoomTickLimit <= 0 {
		o.ZoomTickLimit = DefaultZoomTickLimit
	}
	return o
}

// Camera is the viewport transform state.
type Camera struct {
	Offset   geom.Vec `json:"offset"`
	ZoomTick int      `json:"zoomTick"`

	opts Options
}

// New returns a camera at the origin with zoom tick 0.
func New(opts Options) Camera {
	return Camera{opts: opts.normalized()}
}

// Restore rebuilds a camera from a persisted offset and zoom tick. The tick
// is clamped to the option's limit.
func Restore(opts Options, offset geom.Vec, zoomTick int) Camera {
	c := New(opts)
	c.Offset = offset
	c.ZoomTick = c.clampTick(zoomTick)
	return c
}

// Options returns the zoom curve this camera was built with.
func (c Camera) Options() Options { return c.opts.normalized() }

// Scale returns ZoomBase^ZoomTick. It increases monotonically with the tick.
func (c Camera) Scale() float64 { return c.scaleAt(c.ZoomTick) }

func (c Camera) scaleAt(tick int) float64 {
	return math.Pow(c.Options().ZoomBase, float64(tick))
}

func (c Camera) clampTick(tick int) int {
	limit := c.Options().ZoomTickLimit
	return max(-limit, min(limit, tick))
}

// stepTick returns the tick delta steps away, saturating at the limit
// without overflowing for any delta.
func (c Camera) stepTick(delta int) int {
	limit := c.Options().ZoomTickLimit
	tick := c.clampTick(c.ZoomTick)
	switch {
	case delta > 0 && tick > limit-delta:
		return limit
	case delta < 0 && tick < -limit-delta:
		return -limit
	}
	return tick + delta
}

// MovedBy pans the camera by a viewport-space delta.
func (c Camera) MovedBy(delta geom.Vec) Camera {
	c.Offset = c.Offset.Plus(delta)
	return c
}

// ZoomedBy changes the zoom tick by delta while keeping the world point under
// pivot (a viewport-space position) fixed on screen. At the zoom limits the
// receiver is returned unchanged.
func (c Camera) ZoomedBy(delta int, pivot geom.Vec) Camera {
	tick := c.stepTick(delta)
	if tick == c.ZoomTick {
		return c
	}

	current := c.Scale()
	next := c.scaleAt(tick)

	// Keep the world point under pivot fixed: relative to the current offset,
	// the pivot's distance scales by next/current.
	rel := pivot.Minus(c.Offset)
	shift := rel.Minus(rel.Times(next / current))

	c.Offset = c.Offset.Plus(shift)
	c.ZoomTick = tick
	return c
}

// Reset returns the camera at the origin with zoom tick 0.
func (c Camera) Reset() Camera { return New(c.opts) }

// ViewportToWorld maps a viewport point into world space.
func (c Camera) ViewportToWorld(p geom.Vec) geom.Vec {
	return p.Minus(c.Offset).DividedBy(c.Scale())
}

// WorldToViewport maps a world point into viewport space.
func (c Camera) WorldToViewport(p geom.Vec) geom.Vec {
	return p.Times(c.Scale()).Plus(c.Offset)
}

// ViewportRectToWorld maps a viewport rect into world space.
func (c Camera) ViewportRectToWorld(r geom.Rect) geom.Rect {
	return geom.RectFrom(geom.Corners{
		TopLeft:     c.ViewportToWorld(r.TopLeft()),
		BottomRight: c.ViewportToWorld(r.BottomRight()),
	})
}

// WorldRectToViewport maps a world rect into viewport space.
func (c Camera) WorldRectToViewport(r geom.Rect) geom.Rect {
	return geom.RectFrom(geom.Corners{
		TopLeft:     c.WorldToViewport(r.TopLeft()),
		BottomRight: c.WorldToViewport(r.BottomRight()),
	})
}

// ViewportDeltaToWorld converts a viewport displacement (no offset) into a
// world displacement.
func (c Camera) ViewportDeltaToWorld(d geom.Vec) geom.Vec {
	return d.DividedBy(c.Scale())
}

// CenteredOn returns a camera with the same zoom whose viewport of the given
// size is centred on the world point p.
func (c Camera) CenteredOn(p geom.Vec, viewport geom.Vec) Camera {
	c.Offset = viewport.DividedBy(2).Minus(p.Times(c.Scale()))
	return c
}
