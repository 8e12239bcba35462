package flock

import (
	"math"
	"slices"
)

type gridKey struct {
	x, y int
}

// spatialGrid buckets boid indices by cell so a neighbor query only visits
// the 3x3 block of cells around a position instead of the whole flock.
type spatialGrid struct {
	cellSize float64
	cells    map[gridKey][]int
}

func newSpatialGrid(cellSize float64) *spatialGrid {
	return &spatialGrid{
		// Clamp to a minimum of 10 to avoid tiny grids or div by zero
		cellSize: math.Max(cellSize, 10.0),
		cells:    make(map[gridKey][]int),
	}
}

// rebuild re-buckets every boid. Slices are truncated, not dropped, so their
// backing arrays are reused from one tick to the next.
func (g *spatialGrid) rebuild(boids []*Boid) {
	for k := range g.cells {
		g.cells[k] = g.cells[k][:0]
	}
	for i, b := range boids {
		key := g.keyOf(b.Position.X, b.Position.Y)
		g.cells[key] = append(g.cells[key], i)
	}
}

func (g *spatialGrid) keyOf(x, y float64) gridKey {
	return gridKey{x: int(math.Floor(x / g.cellSize)), y: int(math.Floor(y / g.cellSize))}
}

// nearby appends to dst the index of every boid in and around the cell
// containing (x, y), in ascending order. With a cell as wide as the largest
// query radius, the result is a superset of the boids within that radius.
// Ascending order keeps the floating point sums of the rules identical to
// the all-pairs scan.
func (g *spatialGrid) nearby(dst []int, x, y float64) []int {
	center := g.keyOf(x, y)
	for i := center.x - 1; i <= center.x+1; i++ {
		for j := center.y - 1; j <= center.y+1; j++ {
			if indices, ok := g.cells[gridKey{x: i, y: j}]; ok {
				dst = append(dst, indices...)
			}
		}
	}
	slices.Sort(dst)
	return dst
}
