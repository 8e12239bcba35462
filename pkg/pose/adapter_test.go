package pose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lao-tseu-is-alive/go-pose-flock/pkg/geometry"
)

func kp(x, y float64) Keypoint {
	return Keypoint{Position: geometry.NewVector(x, y), Score: 0.9}
}

func TestMirrorX(t *testing.T) {
	tests := []struct {
		name     string
		cameraX  float64
		expected float64
	}{
		{"Left edge maps to right edge", 0, 800},
		{"Right edge maps to left edge", 640, 0},
		{"Center stays centered", 320, 400},
		{"Quarter", 160, 600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, MirrorX(tt.cameraX, 640, 800), 1e-9)
		})
	}
}

func TestAdapter_RepulsionPoints(t *testing.T) {
	a := Adapter{ViewportWidth: 800}

	t.Run("No person gives no points", func(t *testing.T) {
		assert.Empty(t, a.RepulsionPoints(nil, 640))
		assert.Empty(t, a.RepulsionPoints([]Detection{}, 640))
	})

	t.Run("Unknown camera width gives no points", func(t *testing.T) {
		assert.Empty(t, a.RepulsionPoints([]Detection{{Nose: kp(10, 10)}}, 0))
	})

	t.Run("Only the first person is used", func(t *testing.T) {
		first := Detection{Nose: kp(0, 100)}
		second := Detection{Nose: kp(640, 200), LeftHip: kp(320, 300)}

		points := a.RepulsionPoints([]Detection{first, second}, 640)

		require.Len(t, points, 1)
		assert.Equal(t, geometry.NewVector(800, 100), points[0])
	})

	t.Run("Missing parts are skipped and order is fixed", func(t *testing.T) {
		d := Detection{
			RightAnkle:   kp(640, 590),
			Nose:         kp(320, 50),
			LeftShoulder: kp(0, 120),
		}

		points := a.RepulsionPoints([]Detection{d}, 640)

		require.Len(t, points, 3)
		assert.Equal(t, geometry.NewVector(800, 120), points[0])
		assert.Equal(t, geometry.NewVector(400, 50), points[1])
		assert.Equal(t, geometry.NewVector(0, 590), points[2])
	})

	t.Run("Full body yields nine points", func(t *testing.T) {
		d := make(Detection)
		for i, p := range RepulsiveParts {
			d[p] = kp(float64(i*10), float64(i*20))
		}

		points := a.RepulsionPoints([]Detection{d}, 640)

		require.Len(t, points, len(RepulsiveParts))
		for i, p := range points {
			assert.Equal(t, float64(i*20), p.Y, "y passes through")
		}
	})

	t.Run("Low confidence keypoints are dropped", func(t *testing.T) {
		strict := Adapter{ViewportWidth: 800, MinScore: 0.5}
		d := Detection{
			Nose:    {Position: geometry.NewVector(1, 1), Score: 0.2},
			LeftHip: {Position: geometry.NewVector(2, 2), Score: 0.8},
		}

		points := strict.RepulsionPoints([]Detection{d}, 640)

		require.Len(t, points, 1)
		assert.Equal(t, 2.0, points[0].Y)
	})
}

func TestAdapter_FramePoints(t *testing.T) {
	a := Adapter{ViewportWidth: 800}
	d := []Detection{{Nose: kp(160, 10)}}

	withWidth := a.FramePoints(Frame{Detections: d, CameraWidth: 320}, 640)
	fallback := a.FramePoints(Frame{Detections: d}, 640)

	require.Len(t, withWidth, 1)
	require.Len(t, fallback, 1)
	assert.InDelta(t, 400.0, withWidth[0].X, 1e-9)
	assert.InDelta(t, 600.0, fallback[0].X, 1e-9)
}
