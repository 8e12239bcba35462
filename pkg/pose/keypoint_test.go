package pose

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBodyPart(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected BodyPart
		found    bool
	}{
		{"camelCase", "leftShoulder", LeftShoulder, true},
		{"snake_case", "right_ankle", RightAnkle, true},
		{"kebab-case", "left-knee", LeftKnee, true},
		{"Upper case", "NOSE", Nose, true},
		{"Not repulsive", "leftWrist", 0, false},
		{"Empty", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			part, ok := ParseBodyPart(tt.input)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.expected, part)
			}
		})
	}
}

func TestBodyPart_String(t *testing.T) {
	assert.Equal(t, "rightHip", RightHip.String())
	assert.Equal(t, "unknown", BodyPart(42).String())
	for _, p := range RepulsiveParts {
		back, ok := ParseBodyPart(p.String())
		assert.True(t, ok)
		assert.Equal(t, p, back)
	}
}
