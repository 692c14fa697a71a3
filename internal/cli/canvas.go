package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/battlemap/pkg/board"
	"github.com/matzehuels/battlemap/pkg/geom"
	"github.com/matzehuels/battlemap/pkg/grid"
	"github.com/matzehuels/battlemap/pkg/token"
)

// cellPixels is the viewport size of one terminal cell. Terminal cells are
// roughly twice as tall as wide, so this keeps grid squares square.
var cellPixels = geom.V(8, 16)

// paint selects the style of one canvas cell.
type paint uint8

const (
	paintOutside paint = iota
	paintLight
	paintDark
	paintArea
	paintCharacter
	paintHidden
	paintSelected
	paintMarquee
	paintPen
)

var paintStyles = [...]lipgloss.Style{
	paintOutside:   lipgloss.NewStyle(),
	paintLight:     lipgloss.NewStyle().Foreground(colorDim).Background(lipgloss.Color("236")),
	paintDark:      lipgloss.NewStyle().Foreground(colorDim).Background(lipgloss.Color("235")),
	paintArea:      lipgloss.NewStyle().Foreground(colorBlue).Background(lipgloss.Color("235")),
	paintCharacter: lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Background(lipgloss.Color("30")),
	paintHidden:    lipgloss.NewStyle().Foreground(colorRed).Background(lipgloss.Color("237")),
	paintSelected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("232")).Background(colorYellow),
	paintMarquee:   lipgloss.NewStyle().Foreground(colorCyan),
	paintPen:       lipgloss.NewStyle().Foreground(colorBlue),
}

// canvas is a character grid the map view paints into before styling.
type canvas struct {
	w, h   int
	runes  []rune
	paints []paint
}

func newCanvas(w, h int) *canvas {
	w, h = max(w, 0), max(h, 0)
	c := &canvas{w: w, h: h, runes: make([]rune, w*h), paints: make([]paint, w*h)}
	for i := range c.runes {
		c.runes[i] = ' '
	}
	return c
}

func (c *canvas) set(x, y int, r rune, p paint) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.runes[y*c.w+x] = r
	c.paints[y*c.w+x] = p
}

func (c *canvas) at(x, y int) rune { return c.runes[y*c.w+x] }

// span converts a viewport rect into the half-open range of terminal cells it
// touches, clipped to the canvas.
func (c *canvas) span(r geom.Rect) (x0, y0, x1, y1 int) {
	x0 = max(0, int(math.Floor(r.Left()/cellPixels.X)))
	y0 = max(0, int(math.Floor(r.Top()/cellPixels.Y)))
	x1 = min(c.w, int(math.Ceil(r.Right()/cellPixels.X)))
	y1 = min(c.h, int(math.Ceil(r.Bottom()/cellPixels.Y)))
	return
}

func (c *canvas) fill(r geom.Rect, ch rune, p paint) {
	x0, y0, x1, y1 := c.span(r)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c.set(x, y, ch, p)
		}
	}
}

// outline draws a box along the edge of r. Edges outside the canvas are
// skipped.
func (c *canvas) outline(r geom.Rect, p paint) {
	x0 := int(math.Floor(r.Left() / cellPixels.X))
	y0 := int(math.Floor(r.Top() / cellPixels.Y))
	x1 := int(math.Ceil(r.Right()/cellPixels.X)) - 1
	y1 := int(math.Ceil(r.Bottom()/cellPixels.Y)) - 1
	if x1 < x0 || y1 < y0 {
		return
	}
	for x := x0 + 1; x < x1; x++ {
		c.set(x, y0, '─', p)
		c.set(x, y1, '─', p)
	}
	for y := y0 + 1; y < y1; y++ {
		c.set(x0, y, '│', p)
		c.set(x1, y, '│', p)
	}
	c.set(x0, y0, '┌', p)
	c.set(x1, y0, '┐', p)
	c.set(x0, y1, '└', p)
	c.set(x1, y1, '┘', p)
}

// label writes s centred in r, truncated to its width.
func (c *canvas) label(r geom.Rect, s string, p paint) {
	x0, y0, x1, y1 := c.span(r)
	if x1 <= x0 || y1 <= y0 {
		return
	}
	runes := []rune(s)
	if len(runes) > x1-x0 {
		runes = runes[:x1-x0]
	}
	x := x0 + (x1-x0-len(runes))/2
	y := y0 + (y1-y0-1)/2
	for i, ch := range runes {
		c.set(x+i, y, ch, p)
	}
}

// String returns the canvas text without styling.
func (c *canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(c.runes[y*c.w : (y+1)*c.w]))
	}
	return b.String()
}

// Render styles runs of equally painted cells.
func (c *canvas) Render() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		row := y * c.w
		for x := 0; x < c.w; {
			p := c.paints[row+x]
			end := x + 1
			for end < c.w && c.paints[row+end] == p {
				end++
			}
			b.WriteString(paintStyles[p].Render(string(c.runes[row+x : row+end])))
			x = end
		}
	}
	return b.String()
}

// paintBoard draws the grid, tokens and any marquee or pen rect of b into a
// canvas of w×h terminal cells.
func paintBoard(b *board.Board, w, h int) *canvas {
	c := newCanvas(w, h)
	paintGrid(c, b)

	for _, p := range b.Visible(geom.V(float64(w), float64(h)).TimesVec(cellPixels)) {
		paintToken(c, p)
	}
	if r, ok := b.SelectionRect(); ok {
		c.outline(r, paintMarquee)
	}
	if r, ok := b.DrawRect(); ok {
		c.outline(r, paintPen)
	}
	return c
}

func paintGrid(c *canvas, b *board.Board) {
	sc := b.Scene()
	cam := b.Camera()
	bounds, bounded := sc.Bounds()

	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			center := geom.V(float64(x)+0.5, float64(y)+0.5).TimesVec(cellPixels)
			world := cam.ViewportToWorld(center)
			if bounded && !bounds.Contains(world) {
				continue
			}
			col, row := grid.ToCell(world, sc.CellSize)
			if (col+row)%2 == 0 {
				c.set(x, y, ' ', paintLight)
			} else {
				c.set(x, y, ' ', paintDark)
			}
		}
	}
}

func paintToken(c *canvas, p board.Placed) {
	switch {
	case p.Selected:
		c.fill(p.Screen, ' ', paintSelected)
		c.label(p.Screen, tokenLabel(p.Token), paintSelected)
	case !p.Visible:
		c.fill(p.Screen, '░', paintHidden)
		c.label(p.Screen, tokenLabel(p.Token), paintHidden)
	case p.Kind == token.KindArea:
		c.fill(p.Screen, '░', paintArea)
	default:
		c.fill(p.Screen, ' ', paintCharacter)
		c.label(p.Screen, tokenLabel(p.Token), paintCharacter)
	}
}

// tokenLabel is the text drawn on a token: its name, else its key. Areas
// drawn in the view have generated keys and stay unlabelled.
func tokenLabel(t token.Token) string {
	if t.Name != "" {
		return t.Name
	}
	if t.Kind == token.KindArea {
		return ""
	}
	return t.Key
}
