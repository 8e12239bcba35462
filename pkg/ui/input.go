// Package ui holds the small immediate-mode widgets of the control panel.
package ui

import "github.com/hajimehoshi/ebiten/v2"

// Pointer is the mouse state a widget reacts to during one update.
type Pointer struct {
	X, Y    float64
	Pressed bool // Left button held down
}

// ReadPointer samples the ebiten cursor and left mouse button.
func ReadPointer() Pointer {
	mx, my := ebiten.CursorPosition()
	return Pointer{
		X:       float64(mx),
		Y:       float64(my),
		Pressed: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
	}
}

// In reports whether the pointer is inside the x, y, w, h rectangle.
func (p Pointer) In(x, y, w, h float64) bool {
	return p.X >= x && p.X <= x+w && p.Y >= y && p.Y <= y+h
}
