package flock

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/lao-tseu-is-alive/go-pose-flock/pkg/geometry"
)

// Flock owns a fixed population of boids and advances them one tick at a time.
// It is not safe for concurrent use: the frame loop that calls Tick is its only user.
type Flock struct {
	cfg   Config
	rng   *rand.Rand
	boids []*Boid

	// Optimization: spatial hashing, nil when the all-pairs scan is used
	grid       *spatialGrid
	indices    []int
	candidates []*Boid
}

// New validates cfg and spawns cfg.Population boids at random.
func New(cfg Config) (*Flock, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	f := &Flock{
		cfg:   cfg,
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		boids: make([]*Boid, cfg.Population),
	}
	for i := range f.boids {
		f.boids[i] = &Boid{MaxForce: cfg.MaxForce, MaxSpeed: cfg.MaxSpeed}
	}
	f.Scatter()
	if cfg.SpatialGrid {
		f.grid = newSpatialGrid(cfg.flockingRange())
	}
	return f, nil
}

// Scatter gives every boid a new uniform random position over the viewport
// and a random heading. The population is unchanged.
func (f *Flock) Scatter() {
	w, h := f.size()
	for _, b := range f.boids {
		b.Position = geometry.NewVector(f.rng.Float64()*w, f.rng.Float64()*h).Wrap(w, h)
		speed := f.cfg.MinInitialSpeed + f.rng.Float64()*(f.cfg.MaxInitialSpeed-f.cfg.MinInitialSpeed)
		b.Velocity = geometry.NewVectorPolar(speed, f.rng.Float64()*2*math.Pi)
		b.Acceleration = geometry.Zero
	}
}

// Tick advances the simulation by one frame. Steering for the whole flock is
// computed against the positions and velocities from before the tick, then
// every boid integrates and wraps. points are this frame's repulsion points.
func (f *Flock) Tick(points []geometry.Vector2D) {
	if f.grid != nil {
		f.grid.rebuild(f.boids)
	}

	// 1. Forces. Only Acceleration is written here, and no rule reads it.
	t := f.cfg.Tuning
	for _, b := range f.boids {
		b.Steer(f.neighbors(b), t)
		if len(points) > 0 {
			b.Repel(points, t.RepulsionRadius, t.RepulsionStrength)
		}
	}

	// 2. Motion
	w, h := f.size()
	for _, b := range f.boids {
		b.Integrate()
		b.Wrap(w, h)
	}
}

// neighbors returns the boids a rule may need to look at for b. The slice is
// reused by the next call.
func (f *Flock) neighbors(b *Boid) []*Boid {
	if f.grid == nil {
		return f.boids
	}
	f.indices = f.grid.nearby(f.indices[:0], b.Position.X, b.Position.Y)
	f.candidates = f.candidates[:0]
	for _, i := range f.indices {
		f.candidates = append(f.candidates, f.boids[i])
	}
	return f.candidates
}

// Retune swaps the steering constants. Viewport and population stay as they are.
func (f *Flock) Retune(t Tuning) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("retune rejected: %w", err)
	}
	f.cfg.Tuning = t
	for _, b := range f.boids {
		b.MaxForce = t.MaxForce
		b.MaxSpeed = t.MaxSpeed
	}
	if f.grid != nil {
		f.grid = newSpatialGrid(t.flockingRange())
	}
	return nil
}

// Config returns the configuration the flock currently runs with.
func (f *Flock) Config() Config {
	return f.cfg
}

// Len is the population size.
func (f *Flock) Len() int {
	return len(f.boids)
}

// Boids returns a copy of every boid's state.
func (f *Flock) Boids() []Boid {
	out := make([]Boid, len(f.boids))
	for i, b := range f.boids {
		out[i] = *b
	}
	return out
}

// Sprites returns the position and heading of every boid for drawing.
func (f *Flock) Sprites() []Sprite {
	out := make([]Sprite, len(f.boids))
	for i, b := range f.boids {
		out[i] = Sprite{Position: b.Position, Heading: b.Heading()}
	}
	return out
}

func (f *Flock) size() (float64, float64) {
	return float64(f.cfg.Width), float64(f.cfg.Height)
}
