// Command poseflock-term runs the pose-repelled flock in a terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lao-tseu-is-alive/go-pose-flock/internal/config"
	"github.com/lao-tseu-is-alive/go-pose-flock/internal/logging"
	"github.com/lao-tseu-is-alive/go-pose-flock/internal/posefeed"
	"github.com/lao-tseu-is-alive/go-pose-flock/internal/termview"
	"github.com/lao-tseu-is-alive/go-pose-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-pose-flock/pkg/pose"
)

func main() {
	flags := config.BindFlags(flag.CommandLine)
	logPath := flag.String("log", "", "log file, the terminal is taken by the view")
	flag.Parse()

	cfg, err := flags.Config()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := zap.NewNop()
	if *logPath != "" {
		if logger, err = logging.NewTo(cfg.LogLevel, *logPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("poseflock-term failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
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
	}
	if cfg.Pose.Stdin {
		opts.Input = os.Stdin
	}
	feed, err := posefeed.Start(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer func() { _ = feed.Stop(context.Background()) }()

	runCtx, waitFeed := feed.Background(ctx)

	f, err := flock.New(cfg.Flock)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init terminal: %w", err)
	}
	defer screen.Fini()

	loop := &termview.Loop{
		View:  termview.NewView(screen, float64(cfg.Flock.Width), float64(cfg.Flock.Height)),
		Flock: f,
		Poses: feed.Slot,
		Adapter: pose.Adapter{
			ViewportWidth: float64(cfg.Flock.Width),
			MinScore:      cfg.Pose.MinScore,
		},
		CameraWidth: cfg.Camera.Width,
		Interval:    time.Second / time.Duration(cfg.Render.TPS),
		Logger:      logger,
	}
	err = loop.Run(runCtx)
	stop()
	if feedErr := waitFeed(); feedErr != nil {
		return feedErr
	}
	return err
}
