package pose

import "github.com/lao-tseu-is-alive/go-pose-flock/pkg/geometry"

// Adapter converts pose detections into repulsion points in simulation space.
// It keeps no state: a frame without a person yields no points at once.
type Adapter struct {
	ViewportWidth float64
	// MinScore drops keypoints the detector is less confident about.
	// 0 keeps every keypoint.
	MinScore float64
}

// MirrorX maps a camera x coordinate onto the viewport, flipped horizontally
// because the camera feed is displayed mirrored: 0 maps to viewportWidth and
// cameraWidth maps to 0.
func MirrorX(cameraX, cameraWidth, viewportWidth float64) float64 {
	return viewportWidth - (cameraX/cameraWidth)*viewportWidth
}

// RepulsionPoints returns one point per detected repulsive body part of the
// first person in detections. The y coordinate is passed through unscaled,
// which assumes the camera and the viewport share their vertical resolution.
func (a Adapter) RepulsionPoints(detections []Detection, cameraWidth float64) []geometry.Vector2D {
	if len(detections) == 0 || cameraWidth <= 0 {
		return nil
	}
	person := detections[0]
	points := make([]geometry.Vector2D, 0, len(RepulsiveParts))
	for _, part := range RepulsiveParts {
		kp, ok := person[part]
		if !ok || kp.Score < a.MinScore {
			continue
		}
		points = append(points, geometry.Vector2D{
			X: MirrorX(kp.Position.X, cameraWidth, a.ViewportWidth),
			Y: kp.Position.Y,
		})
	}
	return points
}

// FramePoints is RepulsionPoints for a whole frame. fallbackWidth is used when
// the frame does not carry the camera width.
func (a Adapter) FramePoints(f Frame, fallbackWidth float64) []geometry.Vector2D {
	width := f.CameraWidth
	if width <= 0 {
		width = fallbackWidth
	}
	return a.RepulsionPoints(f.Detections, width)
}
