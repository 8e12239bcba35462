// Package posefeed carries pose estimation results from outside the process
// into a pose.Slot read by the frame loop.
package posefeed

import (
	"context"
	"fmt"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-pose-flock/pkg/pose"
)

// ActorName is the name the pose actor is spawned under.
const ActorName = "pose-feed"

// mailboxSize bounds the frames waiting for the actor. Only the latest frame
// matters, so a backed up feed drops messages instead of queueing them.
const mailboxSize = 64

// PoseActor decodes incoming pose messages and publishes them into a slot.
// It accepts:
//   - *structpb.Value: one estimator frame, as produced by pose.ParseMessage
//   - *emptypb.Empty: a stats request, answered with a *structpb.Struct
type PoseActor struct {
	slot         *pose.Slot
	cameraWidth  float64
	cameraHeight float64

	frames    int64
	rejected  int64
	persons   int64
	lastFrame time.Time
}

var _ actor.Actor = (*PoseActor)(nil)

// NewPoseActor creates the actor. cameraWidth and cameraHeight are used for
// frames that do not say how large the camera image was.
func NewPoseActor(slot *pose.Slot, cameraWidth, cameraHeight float64) *PoseActor {
	return &PoseActor{
		slot:         slot,
		cameraWidth:  cameraWidth,
		cameraHeight: cameraHeight,
	}
}

// PreStart initializes the actor.
func (a *PoseActor) PreStart(ctx *actor.Context) error {
	return nil
}

// Receive handles messages sent to the actor.
func (a *PoseActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Infof("%s started, camera %.0fx%.0f", ctx.Self().Name(), a.cameraWidth, a.cameraHeight)

	case *structpb.Value:
		frame, err := pose.FrameFromValue(msg)
		if err != nil {
			a.rejected++
			ctx.Logger().Warnf("dropping pose frame: %v", err)
			return
		}
		if frame.CameraWidth <= 0 {
			frame.CameraWidth = a.cameraWidth
		}
		if frame.CameraHeight <= 0 {
			frame.CameraHeight = a.cameraHeight
		}
		frame.ReceivedAt = time.Now()
		a.slot.Publish(frame)
		a.frames++
		a.persons += int64(len(frame.Detections))
		a.lastFrame = frame.ReceivedAt

	case *emptypb.Empty:
		ctx.Response(a.stats())

	default:
		ctx.Unhandled()
	}
}

// PostStop is used to free-up resources when the actor stops.
func (a *PoseActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("pose feed stopped after %d frames (%d rejected)", a.frames, a.rejected)
	return nil
}

func (a *PoseActor) stats() *structpb.Struct {
	fields := map[string]*structpb.Value{
		"frames":   structpb.NewNumberValue(float64(a.frames)),
		"rejected": structpb.NewNumberValue(float64(a.rejected)),
		"persons":  structpb.NewNumberValue(float64(a.persons)),
	}
	if !a.lastFrame.IsZero() {
		fields["lastFrameAt"] = structpb.NewStringValue(a.lastFrame.Format(time.RFC3339Nano))
	}
	return &structpb.Struct{Fields: fields}
}

// Stats is the feed activity reported by the pose actor.
type Stats struct {
	Frames    int64
	Rejected  int64
	Persons   int64
	LastFrame time.Time
}

// Spawn starts a PoseActor in system.
func Spawn(ctx context.Context, system actor.ActorSystem, slot *pose.Slot, cameraWidth, cameraHeight float64) (*actor.PID, error) {
	pid, err := system.Spawn(ctx, ActorName, NewPoseActor(slot, cameraWidth, cameraHeight),
		actor.WithMailbox(actor.NewBoundedMailbox(mailboxSize)))
	if err != nil {
		return nil, fmt.Errorf("failed to spawn pose actor: %w", err)
	}
	return pid, nil
}

// Submit parses one JSON pose message and sends it to the actor. Only messages
// that are not JSON at all are rejected here; the actor drops the rest. A full
// mailbox drops the message too.
func Submit(ctx context.Context, pid *actor.PID, data []byte) error {
	v, err := pose.ParseMessage(data)
	if err != nil {
		return err
	}
	return actor.Tell(ctx, pid, v)
}

// QueryStats asks the actor for its counters.
func QueryStats(ctx context.Context, pid *actor.PID, timeout time.Duration) (Stats, error) {
	reply, err := actor.Ask(ctx, pid, &emptypb.Empty{}, timeout)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to query pose actor: %w", err)
	}
	return statsFromReply(reply)
}

func statsFromReply(reply proto.Message) (Stats, error) {
	s, ok := reply.(*structpb.Struct)
	if !ok {
		return Stats{}, fmt.Errorf("unexpected stats reply %T", reply)
	}
	fields := s.GetFields()
	stats := Stats{
		Frames:   int64(fields["frames"].GetNumberValue()),
		Rejected: int64(fields["rejected"].GetNumberValue()),
		Persons:  int64(fields["persons"].GetNumberValue()),
	}
	if ts := fields["lastFrameAt"].GetStringValue(); ts != "" {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return Stats{}, fmt.Errorf("bad lastFrameAt in stats reply: %w", err)
		}
		stats.LastFrame = t
	}
	return stats, nil
}
