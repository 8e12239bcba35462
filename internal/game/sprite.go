package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/lao-tseu-is-alive/go-pose-flock/pkg/flock"
)

// The bird faces left, so it is drawn rotated by heading + π.
var birdDesign = []string{
	"................",
	"......KK........",
	".....KWWK.......",
	"....KWEWWK......",
	"..OOKWWWWWK.....",
	"....KWWWWWWK....",
	".....KWWWWWWKK..",
	"......KWWGGWWWKK",
	".......KWWGGGWK.",
	"........KWWWWK..",
	".........KKKK...",
	"................",
}

var birdPalette = map[rune]color.RGBA{
	'K': {R: 30, G: 30, B: 40, A: 255},    // Outline
	'W': {R: 90, G: 140, B: 220, A: 255},  // Body
	'G': {R: 50, G: 90, B: 170, A: 255},   // Wing
	'E': {R: 255, G: 255, B: 255, A: 255}, // Eye
	'O': {R: 255, G: 160, B: 30, A: 255},  // Beak
}

// generateSprite builds an image from an ASCII design, one pixel per character.
// Characters missing from the palette stay transparent.
func generateSprite(design []string, palette map[rune]color.RGBA) *ebiten.Image {
	h := len(design)
	w := len(design[0])
	img := ebiten.NewImage(w, h)

	for y, row := range design {
		for x, char := range row {
			if col, ok := palette[char]; ok {
				img.Set(x, y, col)
			}
		}
	}
	return img
}

// spriteGeoM places a srcW x srcH sprite centered on s, rotated to its heading
// plus π and scaled so its width is size.
func spriteGeoM(s flock.Sprite, srcW, srcH int, size float64) ebiten.GeoM {
	var m ebiten.GeoM
	m.Translate(-float64(srcW)/2, -float64(srcH)/2)
	scale := size / float64(srcW)
	m.Scale(scale, scale)
	m.Rotate(s.Heading + math.Pi)
	m.Translate(s.Position.X, s.Position.Y)
	return m
}
