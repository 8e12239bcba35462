package flock

import "github.com/lao-tseu-is-alive/go-pose-flock/pkg/geometry"

// Boid represents a single entity in the flock.
// Boids is an artificial life program, developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds. The name "boid" is short
// for "bird-oid object". https://en.wikipedia.org/wiki/Boids
type Boid struct {
	Position     geometry.Vector2D
	Velocity     geometry.Vector2D
	Acceleration geometry.Vector2D // Reset to zero by every Integrate

	MaxForce float64
	MaxSpeed float64
}

// Sprite is what a renderer needs to draw one boid.
type Sprite struct {
	Position geometry.Vector2D
	Heading  float64 // Radians from the +x axis, see Boid.Heading
}

// Heading is the angle of the velocity from the +x axis.
func (b *Boid) Heading() float64 {
	return b.Velocity.Angle()
}

// ApplyForce adds a steering force to the acceleration of the current tick.
func (b *Boid) ApplyForce(force geometry.Vector2D) {
	b.Acceleration = b.Acceleration.Add(force)
}

// Integrate moves the boid by one tick and clears its acceleration.
func (b *Boid) Integrate() {
	b.Velocity = b.Velocity.Add(b.Acceleration).Limit(b.MaxSpeed)
	b.Position = b.Position.Add(b.Velocity)
	b.Acceleration = geometry.Zero
}

// Wrap teleports the boid to the opposite edge when it leaves the viewport.
func (b *Boid) Wrap(width, height float64) {
	b.Position = b.Position.Wrap(width, height)
}

// Steer accumulates the weighted separation, alignment and cohesion forces
// computed against the given candidates. The receiver is skipped if present.
func (b *Boid) Steer(candidates []*Boid, t Tuning) {
	b.ApplyForce(b.Separation(candidates, t.SeparationRadius).Mul(t.SeparationWeight))
	b.ApplyForce(b.Alignment(candidates, t.AlignmentRadius).Mul(t.AlignmentWeight))
	b.ApplyForce(b.Cohesion(candidates, t.CohesionRadius).Mul(t.CohesionWeight))
}

// Repel accumulates the pose repulsion of every point within radius.
func (b *Boid) Repel(points []geometry.Vector2D, radius, strength float64) {
	b.ApplyForce(b.Repulsion(points, radius, strength))
}

// Separation steers away from neighbors closer than radius, closer ones weighing more.
func (b *Boid) Separation(candidates []*Boid, radius float64) geometry.Vector2D {
	var (
		sum   geometry.Vector2D
		total int
	)
	for _, other := range candidates {
		if other == b {
			continue
		}
		d := b.Position.DistanceTo(other.Position)
		if d > 0 && d < radius {
			away := b.Position.Sub(other.Position).Normalize().Mul(1 / d)
			sum = sum.Add(away)
			total++
		}
	}
	if total == 0 {
		return geometry.Zero
	}
	desired := sum.Mul(1 / float64(total)).SetLen(b.MaxSpeed)
	return desired.Sub(b.Velocity).Limit(b.MaxForce)
}

// Alignment steers toward the average heading of neighbors within radius.
func (b *Boid) Alignment(candidates []*Boid, radius float64) geometry.Vector2D {
	var (
		sum   geometry.Vector2D
		total int
	)
	for _, other := range candidates {
		if other == b {
			continue
		}
		if b.Position.DistanceTo(other.Position) < radius {
			sum = sum.Add(other.Velocity)
			total++
		}
	}
	if total == 0 {
		return geometry.Zero
	}
	desired := sum.Mul(1 / float64(total)).SetLen(b.MaxSpeed)
	return desired.Sub(b.Velocity).Limit(b.MaxForce)
}

// Cohesion steers toward the centroid of neighbors within radius.
func (b *Boid) Cohesion(candidates []*Boid, radius float64) geometry.Vector2D {
	var (
		sum   geometry.Vector2D
		total int
	)
	for _, other := range candidates {
		if other == b {
			continue
		}
		if b.Position.DistanceTo(other.Position) < radius {
			sum = sum.Add(other.Position)
			total++
		}
	}
	if total == 0 {
		return geometry.Zero
	}
	return b.Seek(sum.Mul(1 / float64(total)))
}

// Seek returns the steering force that turns the boid toward target at full speed.
func (b *Boid) Seek(target geometry.Vector2D) geometry.Vector2D {
	desired := target.Sub(b.Position).SetLen(b.MaxSpeed)
	return desired.Sub(b.Velocity).Limit(b.MaxForce)
}

// Repulsion sums, over every point closer than radius, a push away from the
// point of magnitude (radius - d) * strength. The result is not limited by
// MaxForce. A point exactly on the boid pushes along its current velocity,
// or along +x when the boid is at rest.
func (b *Boid) Repulsion(points []geometry.Vector2D, radius, strength float64) geometry.Vector2D {
	var sum geometry.Vector2D
	for _, p := range points {
		away := b.Position.Sub(p)
		d := away.Len()
		if d >= radius {
			continue
		}
		if d < geometry.Epsilon {
			away = b.fallbackDirection()
		}
		sum = sum.Add(away.SetLen((radius - d) * strength))
	}
	return sum
}

func (b *Boid) fallbackDirection() geometry.Vector2D {
	if b.Velocity.IsZero() {
		return geometry.NewVector(1, 0)
	}
	return b.Velocity
}
