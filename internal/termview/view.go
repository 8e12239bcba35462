// Package termview renders the flock in a terminal with tcell.
package termview

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lao-tseu-is-alive/go-pose-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-pose-flock/pkg/geometry"
)

// Screen y grows downward, so heading π/2 points down.
var arrows = [8]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

const pointRune = '●'

var (
	boidStyle   = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	pointStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
)

// Glyph returns the arrow closest to heading.
func Glyph(heading float64) rune {
	octant := int(math.Round(heading/(math.Pi/4))) % 8
	if octant < 0 {
		octant += 8
	}
	return arrows[octant]
}

// View scales the simulation viewport onto the terminal cells.
type View struct {
	screen         tcell.Screen
	viewportWidth  float64
	viewportHeight float64
}

func NewView(screen tcell.Screen, viewportWidth, viewportHeight float64) *View {
	return &View{screen: screen, viewportWidth: viewportWidth, viewportHeight: viewportHeight}
}

// Cell maps a simulation position onto a terminal cell. ok is false when the
// terminal has no room to draw in.
func (v *View) Cell(p geometry.Vector2D) (x, y int, ok bool) {
	cols, rows := v.screen.Size()
	rows-- // Last row holds the status line
	if cols <= 0 || rows <= 0 {
		return 0, 0, false
	}
	x = clamp(int(p.X/v.viewportWidth*float64(cols)), cols)
	y = clamp(int(p.Y/v.viewportHeight*float64(rows)), rows)
	return x, y, true
}

// Draw paints one frame: repulsion points first, boids over them, then the status line.
func (v *View) Draw(sprites []flock.Sprite, points []geometry.Vector2D, status string) {
	v.screen.Clear()
	for _, p := range points {
		if x, y, ok := v.Cell(p); ok {
			v.screen.SetContent(x, y, pointRune, nil, pointStyle)
		}
	}
	for _, s := range sprites {
		if x, y, ok := v.Cell(s.Position); ok {
			v.screen.SetContent(x, y, Glyph(s.Heading), nil, boidStyle)
		}
	}
	v.drawStatus(status)
	v.screen.Show()
}

func (v *View) drawStatus(status string) {
	cols, rows := v.screen.Size()
	if rows <= 0 {
		return
	}
	x := 0
	for _, r := range status {
		if x >= cols {
			break
		}
		v.screen.SetContent(x, rows-1, r, nil, statusStyle)
		x++
	}
	for ; x < cols; x++ {
		v.screen.SetContent(x, rows-1, ' ', nil, statusStyle)
	}
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
