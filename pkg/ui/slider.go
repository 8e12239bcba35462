package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider edits a float value within [Min, Max] by clicking or dragging.
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	X, Y     float64
	W, H     float64
	Format   string // Printf verb for the value readout
}

// NewSlider creates a slider; value is clamped into [min, max].
func NewSlider(x, y, w float64, label string, min, max, value float64) *Slider {
	s := &Slider{
		Label:  label,
		Min:    min,
		Max:    max,
		X:      x,
		Y:      y,
		W:      w,
		H:      10,
		Format: "%.2f",
	}
	s.SetValue(value)
	return s
}

// SetValue clamps v into the slider range.
func (s *Slider) SetValue(v float64) {
	s.Value = min(max(v, s.Min), s.Max)
}

// Ratio is the position of Value within the range, in [0, 1].
func (s *Slider) Ratio() float64 {
	if s.Max == s.Min {
		return 0
	}
	return (s.Value - s.Min) / (s.Max - s.Min)
}

// Update moves the value under a pressed pointer and reports whether it changed.
func (s *Slider) Update(p Pointer) bool {
	if !p.Pressed || !p.In(s.X, s.Y, s.W, s.H) {
		return false
	}
	old := s.Value
	s.SetValue(s.Min + (p.X-s.X)/s.W*(s.Max-s.Min))
	return s.Value != old
}

// Draw renders the slider
func (s *Slider) Draw(screen *ebiten.Image) {
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*s.Ratio()), float32(s.H), color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)
	ebitenutil.DebugPrintAt(screen, s.Readout(), int(s.X+s.W)-48, int(s.Y)-15)
}

// Readout is the formatted value shown next to the label.
func (s *Slider) Readout() string {
	return fmt.Sprintf(s.Format, s.Value)
}
