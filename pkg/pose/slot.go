package pose

import "sync/atomic"

// Source hands the frame loop the most recent pose estimation result.
type Source interface {
	Latest() Frame
}

// Slot is a single-value, last-write-wins handoff between the pose producer
// and the frame loop. Publish replaces the whole frame with one pointer swap,
// so a reader never sees a frame that is half written. Nothing is queued.
type Slot struct {
	latest  atomic.Pointer[Frame]
	version atomic.Uint64
}

var _ Source = (*Slot)(nil)

// Publish makes f the latest frame. The slot keeps its own copy of the
// detection slice; callers must not mutate the Detection maps afterwards.
func (s *Slot) Publish(f Frame) {
	f.Detections = append([]Detection(nil), f.Detections...)
	s.latest.Store(&f)
	s.version.Add(1)
}

// Latest returns the last published frame, or the zero Frame before the first Publish.
func (s *Slot) Latest() Frame {
	if f := s.latest.Load(); f != nil {
		return *f
	}
	return Frame{}
}

// Version counts the frames published so far.
func (s *Slot) Version() uint64 {
	return s.version.Load()
}

// Clear drops the current frame, as if no person had ever been detected.
func (s *Slot) Clear() {
	s.latest.Store(nil)
	s.version.Add(1)
}

// Static is a Source that always returns the same frame. Handy in tests and demos.
type Static Frame

// Latest returns the frame.
func (s Static) Latest() Frame {
	return Frame(s)
}
