// Command poseflock shows a flock of birds in a window. The birds flee the
// body of the person seen by a pose estimator feeding frames over websocket
// or stdin.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/lao-tseu-is-alive/go-pose-flock/internal/config"
	"github.com/lao-tseu-is-alive/go-pose-flock/internal/game"
	"github.com/lao-tseu-is-alive/go-pose-flock/internal/logging"
	"github.com/lao-tseu-is-alive/go-pose-flock/internal/posefeed"
	"github.com/lao-tseu-is-alive/go-pose-flock/pkg/flock"
)

func main() {
	flags := config.BindFlags(flag.CommandLine)
	flag.Parse()

	cfg, err := flags.Config()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("poseflock failed", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := posefeed.Options{
		Listen:       cfg.Pose.Listen,
		CameraWidth:  cfg.Camera.Width,
		CameraHeight: cfg.Camera.Height,
		StatsEvery:   10 * time.Second,
		ActorLogs:    cfg.LogLevel == "debug",
	}
	if cfg.Pose.Stdin {
		opts.Input = os.Stdin
	}
	feed, err := posefeed.Start(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := feed.Stop(context.Background()); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	// A failing feed ends the window too.
	runCtx, waitFeed := feed.Background(ctx)

	f, err := flock.New(cfg.Flock)
	if err != nil {
		return err
	}
	var camera game.Camera
	if cfg.Render.Background != "" {
		still, err := game.NewStillCamera(cfg.Render.Background)
		if err != nil {
			return err
		}
		camera = still
	}

	logger.Info("flock ready",
		zap.Int("boids", f.Len()),
		zap.Int("width", cfg.Flock.Width),
		zap.Int("height", cfg.Flock.Height),
		zap.String("listen", cfg.Pose.Listen),
		zap.Bool("stdin", cfg.Pose.Stdin))

	ebiten.SetWindowSize(cfg.Flock.Width, cfg.Flock.Height)
	ebiten.SetWindowTitle("Pose Flock")
	ebiten.SetTPS(cfg.Render.TPS)

	g := game.New(cfg, f, feed.Slot, camera, logger)
	// RunGame returns nil when Update reports ebiten.Termination.
	if err := ebiten.RunGame(&quittable{Game: g, ctx: runCtx}); err != nil {
		stop()
		_ = waitFeed()
		return fmt.Errorf("game loop failed: %w", err)
	}
	stop()
	return waitFeed()
}

// quittable ends the ebiten loop once ctx is cancelled.
type quittable struct {
	*game.Game
	ctx context.Context
}

func (q *quittable) Update() error {
	if q.ctx.Err() != nil {
		return ebiten.Termination
	}
	return q.Game.Update()
}
