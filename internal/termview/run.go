package termview

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lao-tseu-is-alive/go-pose-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-pose-flock/pkg/pose"
)

// Loop drives the flock from a ticker and redraws after every tick.
type Loop struct {
	View        *View
	Flock       *flock.Flock
	Poses       pose.Source
	Adapter     pose.Adapter
	CameraWidth float64 // Used for frames that do not carry their camera width
	Interval    time.Duration
	Logger      *zap.Logger

	paused bool
	ticks  uint64
}

// Step advances the simulation by one tick against the latest pose frame and redraws.
func (l *Loop) Step() {
	points := l.Adapter.FramePoints(l.Poses.Latest(), l.CameraWidth)
	if !l.paused {
		l.Flock.Tick(points)
		l.ticks++
	}
	l.View.Draw(l.Flock.Sprites(), points, l.status(len(points)))
}

func (l *Loop) status(points int) string {
	state := "running"
	if l.paused {
		state = "paused"
	}
	return fmt.Sprintf(" %d boids | %d keypoints | tick %d | %s | space pause  s scatter  q quit", l.Flock.Len(), points, l.ticks, state)
}

// HandleEvent applies a terminal event and reports whether the loop should keep going.
func (l *Loop) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
			l.paused = !l.paused
		case ev.Key() == tcell.KeyRune && ev.Rune() == 's':
			l.Flock.Scatter()
			l.Logger.Debug("flock scattered")
		}
	case *tcell.EventResize:
		l.View.screen.Sync()
	}
	return true
}

// Run ticks until ctx is cancelled or the user quits. The screen must be initialized.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		defer close(events)
		for {
			// PollEvent returns nil once the screen is finalized
			ev := l.View.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !l.HandleEvent(ev) {
				l.Logger.Info("terminal view closed", zap.Uint64("ticks", l.ticks))
				return nil
			}
		case <-ticker.C:
			l.Step()
		}
	}
}
