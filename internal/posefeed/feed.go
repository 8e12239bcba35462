package posefeed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lao-tseu-is-alive/go-pose-flock/pkg/pose"
)

// Options select which feeds run.
type Options struct {
	Listen       string    // Websocket address, empty disables the server
	Input        io.Reader // Line-delimited JSON frames, nil disables the reader
	CameraWidth  float64
	CameraHeight float64
	StatsEvery   time.Duration // 0 disables the periodic stats log
	ActorLogs    bool          // Keep the actor system's own logging
}

// Feed owns the actor system carrying pose frames into Slot.
type Feed struct {
	Slot   *pose.Slot
	System actor.ActorSystem
	PID    *actor.PID
	Server *Server

	opts   Options
	logger *zap.Logger
}

// Start boots the actor system and spawns the pose actor. Call Run to start
// the feeds and Stop when done.
func Start(ctx context.Context, opts Options, logger *zap.Logger) (*Feed, error) {
	var actorLogger golog.Logger = golog.DiscardLogger
	if opts.ActorLogs {
		actorLogger = golog.DefaultLogger
	}
	system, err := actor.NewActorSystem("PoseFlock-"+uuid.NewString(),
		actor.WithLogger(actorLogger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		return nil, fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start actor system: %w", err)
	}

	slot := &pose.Slot{}
	pid, err := Spawn(ctx, system, slot, opts.CameraWidth, opts.CameraHeight)
	if err != nil {
		_ = system.Stop(ctx)
		return nil, err
	}

	f := &Feed{
		Slot:   slot,
		System: system,
		PID:    pid,
		opts:   opts,
		logger: logger.Named("posefeed"),
	}
	if opts.Listen != "" {
		f.Server = NewServer(pid, logger)
	}
	return f, nil
}

// Run serves the configured feeds until ctx is cancelled or one of them fails.
func (f *Feed) Run(ctx context.Context) error {
	if f.opts.Input != nil {
		// A blocked read cannot be interrupted, so the reader is not waited for.
		go func() {
			if err := ReadLines(ctx, f.opts.Input, f.PID, f.logger); err != nil {
				f.logger.Error("pose input failed", zap.Error(err))
			}
		}()
	}

	g, gctx := errgroup.WithContext(ctx)
	if f.Server != nil {
		g.Go(func() error {
			return f.Server.ListenAndServe(gctx, f.opts.Listen)
		})
	}
	if f.opts.StatsEvery > 0 {
		g.Go(func() error {
			f.logStats(gctx)
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})
	return g.Wait()
}

// Background runs the feeds in their own goroutine. The returned context ends
// with ctx or as soon as a feed fails, with the failure as its cause. wait
// blocks until Run has returned and yields its error.
func (f *Feed) Background(ctx context.Context) (runCtx context.Context, wait func() error) {
	runCtx, cancel := context.WithCancelCause(ctx)
	done := make(chan error, 1)
	go func() {
		err := f.Run(ctx)
		if err != nil {
			f.logger.Error("pose feed failed", zap.Error(err))
			cancel(err)
		}
		done <- err
	}()
	return runCtx, func() error {
		defer cancel(nil)
		return <-done
	}
}

func (f *Feed) logStats(ctx context.Context) {
	ticker := time.NewTicker(f.opts.StatsEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats, err := QueryStats(ctx, f.PID, time.Second)
			if err != nil {
				f.logger.Warn("pose stats unavailable", zap.Error(err))
				continue
			}
			clients := int64(0)
			if f.Server != nil {
				clients = f.Server.Clients()
			}
			f.logger.Info("pose feed stats",
				zap.Int64("frames", stats.Frames),
				zap.Int64("rejected", stats.Rejected),
				zap.Int64("persons", stats.Persons),
				zap.Int64("clients", clients),
				zap.Time("lastFrame", stats.LastFrame))
		}
	}
}

// Stop shuts the actor system down.
func (f *Feed) Stop(ctx context.Context) error {
	if err := f.System.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop actor system: %w", err)
	}
	return nil
}
