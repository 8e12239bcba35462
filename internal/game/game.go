// Package game runs the flock in an ebiten window.
package game

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/lao-tseu-is-alive/go-pose-flock/internal/config"
	"github.com/lao-tseu-is-alive/go-pose-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-pose-flock/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-pose-flock/pkg/pose"
	"github.com/lao-tseu-is-alive/go-pose-flock/pkg/ui"
)

var (
	background    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	keypointColor = color.RGBA{R: 255, G: 60, B: 60, A: 160}
)

type Game struct {
	cfg     config.Config
	flock   *flock.Flock
	poses   pose.Source
	adapter pose.Adapter
	camera  Camera
	logger  *zap.Logger

	points []geometry.Vector2D // Repulsion points of the last tick

	bird        *ebiten.Image
	cameraImg   *ebiten.Image
	cameraFrame image.Image

	panel                  *ui.Panel
	widgetMaxSpeed         *ui.Slider
	widgetMaxForce         *ui.Slider
	widgetSeparationRadius *ui.Slider
	widgetAlignmentRadius  *ui.Slider
	widgetCohesionRadius   *ui.Slider
	widgetSeparationWeight *ui.Slider
	widgetAlignmentWeight  *ui.Slider
	widgetCohesionWeight   *ui.Slider
	widgetRepulsionRadius  *ui.Slider
	widgetRepulsionForce   *ui.Slider
	widgetShowKeypoints    *ui.Checkbox
	widgetPaused           *ui.Checkbox

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64
}

// New wires the flock to its pose source. camera may be nil for a plain background.
func New(cfg config.Config, f *flock.Flock, poses pose.Source, camera Camera, logger *zap.Logger) *Game {
	g := &Game{
		cfg:   cfg,
		flock: f,
		poses: poses,
		adapter: pose.Adapter{
			ViewportWidth: float64(cfg.Flock.Width),
			MinScore:      cfg.Pose.MinScore,
		},
		camera: camera,
		logger: logger.Named("game"),
	}

	t := f.Config().Tuning
	panel := ui.NewPanel(10, 10, 260, float64(cfg.Flock.Height)-20, "Flock (Tab to hide)")
	panel.AddSection("Steering")
	g.widgetMaxSpeed = panel.AddSlider("Max Speed", 0.5, 10, t.MaxSpeed)
	g.widgetMaxForce = panel.AddSlider("Max Force", 0.01, 1, t.MaxForce)
	g.widgetMaxForce.Format = "%.3f"

	panel.AddSection("Radii")
	g.widgetSeparationRadius = panel.AddSlider("Separation", 0, 150, t.SeparationRadius)
	g.widgetAlignmentRadius = panel.AddSlider("Alignment", 0, 150, t.AlignmentRadius)
	g.widgetCohesionRadius = panel.AddSlider("Cohesion", 0, 150, t.CohesionRadius)

	panel.AddSection("Weights")
	g.widgetSeparationWeight = panel.AddSlider("Separation", 0, 5, t.SeparationWeight)
	g.widgetAlignmentWeight = panel.AddSlider("Alignment", 0, 5, t.AlignmentWeight)
	g.widgetCohesionWeight = panel.AddSlider("Cohesion", 0, 5, t.CohesionWeight)

	panel.AddSection("Pose Repulsion")
	g.widgetRepulsionRadius = panel.AddSlider("Radius", 0, 400, t.RepulsionRadius)
	g.widgetRepulsionForce = panel.AddSlider("Strength", 0, 2, t.RepulsionStrength)

	panel.AddSection("Display")
	g.widgetShowKeypoints = panel.AddCheckbox("Show Keypoints", cfg.Render.ShowKeypoints)
	g.widgetPaused = panel.AddCheckbox("Pause", false)
	panel.AddButton("Scatter", f.Scatter)
	panel.Hidden = !cfg.Render.ShowPanel
	g.panel = panel

	return g
}

// tuning reads the steering constants off the panel.
func (g *Game) tuning() flock.Tuning {
	return flock.Tuning{
		MaxForce:          g.widgetMaxForce.Value,
		MaxSpeed:          g.widgetMaxSpeed.Value,
		SeparationRadius:  g.widgetSeparationRadius.Value,
		AlignmentRadius:   g.widgetAlignmentRadius.Value,
		CohesionRadius:    g.widgetCohesionRadius.Value,
		SeparationWeight:  g.widgetSeparationWeight.Value,
		AlignmentWeight:   g.widgetAlignmentWeight.Value,
		CohesionWeight:    g.widgetCohesionWeight.Value,
		RepulsionRadius:   g.widgetRepulsionRadius.Value,
		RepulsionStrength: g.widgetRepulsionForce.Value,
	}
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.panel.Hidden = !g.panel.Hidden
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.widgetPaused.Value = !g.widgetPaused.Value
	}
	_, wheel := ebiten.Wheel()
	g.step(ui.ReadPointer(), wheel)
	return nil
}

// step runs one frame of logic: panel input, then one flock tick against the
// latest pose frame.
func (g *Game) step(ptr ui.Pointer, wheel float64) {
	if g.panel.UpdateWith(ptr, wheel) {
		if err := g.flock.Retune(g.tuning()); err != nil {
			g.logger.Warn("ignoring panel settings", zap.Error(err))
		}
	}

	g.points = g.adapter.FramePoints(g.poses.Latest(), g.cfg.Camera.Width)
	if !g.widgetPaused.Value {
		g.flock.Tick(g.points)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	g.drawBackground(screen)

	if g.widgetShowKeypoints.Value {
		r := float32(g.cfg.Render.SpriteSize / 8)
		for _, p := range g.points {
			vector.FillCircle(screen, float32(p.X), float32(p.Y), r, keypointColor, true)
		}
	}

	if g.bird == nil {
		g.bird = generateSprite(birdDesign, birdPalette)
	}
	w, h := g.bird.Bounds().Dx(), g.bird.Bounds().Dy()
	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	for _, s := range g.flock.Sprites() {
		op.GeoM = spriteGeoM(s, w, h, g.cfg.Render.SpriteSize)
		screen.DrawImage(g.bird, op)
	}

	g.panel.Draw(screen)

	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\nBoids: %d\nKeypoints: %d\n\nUpdate: %.2fms\nDraw:   %.2fms",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		g.flock.Len(),
		len(g.points),
		g.updateAvg,
		g.drawAvg)
	ebitenutil.DebugPrintAt(screen, msg, g.cfg.Flock.Width-150, 10)
}

func (g *Game) drawBackground(screen *ebiten.Image) {
	screen.Fill(background)
	if g.camera == nil {
		return
	}
	frame := g.camera.Frame()
	if frame == nil {
		return
	}
	if frame != g.cameraFrame {
		if g.cameraImg != nil {
			g.cameraImg.Deallocate()
		}
		g.cameraImg = ebiten.NewImageFromImage(frame)
		g.cameraFrame = frame
	}
	b := frame.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM = mirrorGeoM(b.Dx(), b.Dy(), float64(g.cfg.Flock.Width), float64(g.cfg.Flock.Height))
	screen.DrawImage(g.cameraImg, op)
}

func (g *Game) Layout(w, h int) (int, int) { return g.cfg.Flock.Width, g.cfg.Flock.Height }
