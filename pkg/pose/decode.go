package pose

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-pose-flock/pkg/geometry"
)

// ErrMalformedFrame is returned when a pose message cannot be understood.
var ErrMalformedFrame = errors.New("malformed pose frame")

// ParseMessage reads a JSON pose message into a protobuf Value, the form in
// which frames travel between actors.
func ParseMessage(data []byte) (*structpb.Value, error) {
	v := &structpb.Value{}
	if err := protojson.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return v, nil
}

// DecodeFrame parses a JSON pose message. See FrameFromValue for the accepted shapes.
func DecodeFrame(data []byte) (Frame, error) {
	v, err := ParseMessage(data)
	if err != nil {
		return Frame{}, err
	}
	return FrameFromValue(v)
}

// FrameFromValue accepts three shapes:
//
//	[{"pose": {"nose": {"x": 1, "y": 2, "confidence": 0.9}, ...}}, ...]
//	[{"nose": {"x": 1, "y": 2, "score": 0.9}, ...}, ...]
//	{"width": 640, "height": 480, "poses": [ ...either of the above... ]}
//
// A pose may also list its keypoints as
// "keypoints": [{"part": "nose", "position": {"x": 1, "y": 2}, "score": 0.9}].
// Body parts that do not repel the flock are ignored, and so are keypoints
// without numeric coordinates.
func FrameFromValue(v *structpb.Value) (Frame, error) {
	switch k := v.GetKind().(type) {
	case *structpb.Value_ListValue:
		return FrameFromList(k.ListValue)
	case *structpb.Value_StructValue:
		fields := k.StructValue.GetFields()
		poses, ok := fields["poses"]
		if !ok || poses.GetListValue() == nil {
			return Frame{}, fmt.Errorf("%w: object without a poses list", ErrMalformedFrame)
		}
		f, err := FrameFromList(poses.GetListValue())
		if err != nil {
			return Frame{}, err
		}
		f.CameraWidth = fields["width"].GetNumberValue()
		f.CameraHeight = fields["height"].GetNumberValue()
		return f, nil
	default:
		return Frame{}, fmt.Errorf("%w: expected a list or an object", ErrMalformedFrame)
	}
}

// FrameFromList decodes a list of poses, one per person.
func FrameFromList(l *structpb.ListValue) (Frame, error) {
	var f Frame
	for i, item := range l.GetValues() {
		s := item.GetStructValue()
		if s == nil {
			return Frame{}, fmt.Errorf("%w: pose %d is not an object", ErrMalformedFrame, i)
		}
		if inner := s.GetFields()["pose"].GetStructValue(); inner != nil {
			s = inner
		}
		f.Detections = append(f.Detections, detectionFromStruct(s))
	}
	return f, nil
}

func detectionFromStruct(s *structpb.Struct) Detection {
	d := make(Detection)
	for name, val := range s.GetFields() {
		if name == "keypoints" {
			continue
		}
		part, ok := ParseBodyPart(name)
		if !ok {
			continue
		}
		if kp, ok := keypointFromStruct(val.GetStructValue()); ok {
			d[part] = kp
		}
	}
	addKeypointList(d, s.GetFields()["keypoints"].GetListValue())
	return d
}

// addKeypointList fills the parts still missing from d with the PoseNet style list.
func addKeypointList(d Detection, l *structpb.ListValue) {
	for _, item := range l.GetValues() {
		s := item.GetStructValue()
		if s == nil {
			continue
		}
		name := s.GetFields()["part"].GetStringValue()
		if name == "" {
			name = s.GetFields()["name"].GetStringValue()
		}
		part, ok := ParseBodyPart(name)
		if !ok {
			continue
		}
		if _, seen := d[part]; seen {
			continue
		}
		if kp, ok := keypointFromStruct(s); ok {
			d[part] = kp
		}
	}
}

func keypointFromStruct(s *structpb.Struct) (Keypoint, bool) {
	if s == nil {
		return Keypoint{}, false
	}
	fields := s.GetFields()
	coords := fields
	if pos := fields["position"].GetStructValue(); pos != nil {
		coords = pos.GetFields()
	}
	x, okX := number(coords["x"])
	y, okY := number(coords["y"])
	if !okX || !okY {
		return Keypoint{}, false
	}
	score, ok := number(fields["confidence"])
	if !ok {
		score, ok = number(fields["score"])
	}
	if !ok {
		score = 1
	}
	return Keypoint{Position: geometry.Vector2D{X: x, Y: y}, Score: score}, true
}

func number(v *structpb.Value) (float64, bool) {
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, false
	}
	return n.NumberValue, true
}
