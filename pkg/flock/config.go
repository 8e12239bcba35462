package flock

import (
	"errors"
	"fmt"
	"math"
)

// Tuning holds the steering constants that may change while the simulation runs.
type Tuning struct {
	// Per-boid limits
	MaxForce float64 `json:"maxForce"` // Cap on a single flocking contribution
	MaxSpeed float64 `json:"maxSpeed"` // Cap on velocity after integration

	// Flocking radii
	SeparationRadius float64 `json:"separationRadius"`
	AlignmentRadius  float64 `json:"alignmentRadius"`
	CohesionRadius   float64 `json:"cohesionRadius"`

	// Flocking weights
	SeparationWeight float64 `json:"separationWeight"`
	AlignmentWeight  float64 `json:"alignmentWeight"`
	CohesionWeight   float64 `json:"cohesionWeight"`

	// Pose repulsion
	RepulsionRadius   float64 `json:"repulsionRadius"`
	RepulsionStrength float64 `json:"repulsionStrength"` // Push per unit of penetration into the radius
}

// Config describes one simulation instance.
type Config struct {
	// Viewport, fixed for the run
	Width  int `json:"width"`
	Height int `json:"height"`

	// Population, fixed for the run
	Population int `json:"population"`

	// Initial speed range of a freshly spawned boid
	MinInitialSpeed float64 `json:"minInitialSpeed"`
	MaxInitialSpeed float64 `json:"maxInitialSpeed"`

	// Seed for the initial layout. 0 picks a seed from the clock.
	Seed uint64 `json:"seed"`

	// SpatialGrid replaces the all-pairs neighbor scan with a uniform grid.
	SpatialGrid bool `json:"spatialGrid"`

	Tuning
}

// DefaultTuning returns the steering constants of the reference flock.
func DefaultTuning() Tuning {
	return Tuning{
		MaxForce:          0.2,
		MaxSpeed:          3,
		SeparationRadius:  25,
		AlignmentRadius:   50,
		CohesionRadius:    50,
		SeparationWeight:  1.5,
		AlignmentWeight:   1.0,
		CohesionWeight:    1.0,
		RepulsionRadius:   180,
		RepulsionStrength: 0.45,
	}
}

// DefaultConfig returns a 30 boid flock on an 800x600 viewport.
func DefaultConfig() Config {
	return Config{
		Width:           800,
		Height:          600,
		Population:      30,
		MinInitialSpeed: 1,
		MaxInitialSpeed: 2,
		Tuning:          DefaultTuning(),
	}
}

// Validate reports every problem of the configuration, each wrapping ErrInvalidConfiguration.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, invalid("viewport must be positive, got %dx%d", c.Width, c.Height))
	}
	if c.Population < 0 {
		errs = append(errs, invalid("population must not be negative, got %d", c.Population))
	}
	if !finite(c.MinInitialSpeed) || !finite(c.MaxInitialSpeed) ||
		c.MinInitialSpeed < 0 || c.MaxInitialSpeed < c.MinInitialSpeed {
		errs = append(errs, invalid("initial speed range [%v, %v) is not valid", c.MinInitialSpeed, c.MaxInitialSpeed))
	}
	if err := c.Tuning.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Validate checks the steering constants. Every constant must be finite.
func (t Tuning) Validate() error {
	var errs []error
	fields := []struct {
		name  string
		value float64
		min   float64
		open  bool // min itself is excluded
	}{
		{"maxSpeed", t.MaxSpeed, 0, true},
		{"maxForce", t.MaxForce, 0, true},
		{"separationRadius", t.SeparationRadius, 0, false},
		{"alignmentRadius", t.AlignmentRadius, 0, false},
		{"cohesionRadius", t.CohesionRadius, 0, false},
		{"separationWeight", t.SeparationWeight, math.Inf(-1), false},
		{"alignmentWeight", t.AlignmentWeight, math.Inf(-1), false},
		{"cohesionWeight", t.CohesionWeight, math.Inf(-1), false},
		{"repulsionRadius", t.RepulsionRadius, 0, false},
		{"repulsionStrength", t.RepulsionStrength, 0, false},
	}
	for _, f := range fields {
		switch {
		case !finite(f.value):
			errs = append(errs, invalid("%s must be finite, got %v", f.name, f.value))
		case f.open && f.value <= f.min:
			errs = append(errs, invalid("%s must be positive, got %v", f.name, f.value))
		case f.value < f.min:
			errs = append(errs, invalid("%s must not be negative, got %v", f.name, f.value))
		}
	}
	return errors.Join(errs...)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// flockingRange is the largest radius any flocking rule looks at.
func (t Tuning) flockingRange() float64 {
	return max(t.SeparationRadius, t.AlignmentRadius, t.CohesionRadius)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfiguration}, args...)...)
}
