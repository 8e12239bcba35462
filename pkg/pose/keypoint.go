// Package pose turns the output of an external pose estimator into repulsion
// points for the flock.
package pose

import (
	"strings"
	"time"

	"github.com/lao-tseu-is-alive/go-pose-flock/pkg/geometry"
)

// BodyPart identifies one of the keypoints that repel the flock.
type BodyPart int

const (
	LeftShoulder BodyPart = iota
	RightShoulder
	LeftHip
	RightHip
	Nose
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
)

// RepulsiveParts lists the torso, head and leg keypoints in the order they are visited.
var RepulsiveParts = [...]BodyPart{
	LeftShoulder, RightShoulder,
	LeftHip, RightHip,
	Nose,
	LeftKnee, RightKnee,
	LeftAnkle, RightAnkle,
}

var partNames = [...]string{
	LeftShoulder:  "leftShoulder",
	RightShoulder: "rightShoulder",
	LeftHip:       "leftHip",
	RightHip:      "rightHip",
	Nose:          "nose",
	LeftKnee:      "leftKnee",
	RightKnee:     "rightKnee",
	LeftAnkle:     "leftAnkle",
	RightAnkle:    "rightAnkle",
}

var partsByName = func() map[string]BodyPart {
	m := make(map[string]BodyPart, len(partNames))
	for p, name := range partNames {
		m[normalizeName(name)] = BodyPart(p)
	}
	return m
}()

func (p BodyPart) String() string {
	if p < 0 || int(p) >= len(partNames) {
		return "unknown"
	}
	return partNames[p]
}

// ParseBodyPart accepts camelCase ("leftShoulder"), snake_case ("left_shoulder")
// and kebab-case names. Parts that do not repel the flock are reported as not found.
func ParseBodyPart(name string) (BodyPart, bool) {
	p, ok := partsByName[normalizeName(name)]
	return p, ok
}

func normalizeName(name string) string {
	r := strings.NewReplacer("_", "", "-", "", " ", "")
	return strings.ToLower(r.Replace(name))
}

// Keypoint is one detected body part in camera pixel space.
type Keypoint struct {
	Position geometry.Vector2D
	Score    float64 // Detector confidence in [0, 1]
}

// Detection maps body parts to keypoints for one person.
// A part that was not detected has no entry.
type Detection map[BodyPart]Keypoint

// Frame is one result of the pose estimator.
type Frame struct {
	Detections   []Detection
	CameraWidth  float64 // Pixel width of the camera image the detections come from, 0 if unknown
	CameraHeight float64
	ReceivedAt   time.Time
}

// Empty reports whether the frame holds no detected person.
func (f Frame) Empty() bool {
	return len(f.Detections) == 0
}
