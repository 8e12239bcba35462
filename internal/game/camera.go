package game

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

// Camera provides the picture shown behind the flock. Frame returns nil when
// there is nothing to show.
type Camera interface {
	Frame() image.Image
}

// StillCamera shows the same picture forever.
type StillCamera struct {
	img image.Image
}

// NewStillCamera decodes a PNG or JPEG file.
func NewStillCamera(path string) (*StillCamera, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open background: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode background: %w", err)
	}
	return &StillCamera{img: img}, nil
}

func (c *StillCamera) Frame() image.Image {
	return c.img
}

// mirrorGeoM stretches a srcW x srcH picture over the viewport, flipped
// horizontally like a mirror so it matches the mirrored keypoints.
func mirrorGeoM(srcW, srcH int, viewW, viewH float64) ebiten.GeoM {
	var m ebiten.GeoM
	m.Scale(-viewW/float64(srcW), viewH/float64(srcH))
	m.Translate(viewW, 0)
	return m
}
