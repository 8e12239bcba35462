package geometry

import (
	"math"
	"testing"
)

// floatEquals is a helper for testing scalar float values with epsilon.
func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

func TestNewVectorPolar(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		theta  float64
		want   Vector2D
	}{
		{"Zero radius", 0, 0, Vector2D{0, 0}},
		{"Zero angle (X-axis)", 10, 0, Vector2D{10, 0}},
		{"90 degrees (Y-axis)", 10, math.Pi / 2, Vector2D{0, 10}},
		{"180 degrees (Negative X)", 10, math.Pi, Vector2D{-10, 0}},
		{"45 degrees", math.Sqrt(2), math.Pi / 4, Vector2D{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewVectorPolar(tt.radius, tt.theta)
			if !got.Eq(tt.want) {
				t.Errorf("NewVectorPolar(%v, %v) = %v; want %v", tt.radius, tt.theta, got, tt.want)
			}
		})
	}
}

func TestVector_String(t *testing.T) {
	v := Vector2D{1.234, 5.678}
	want := "(1.23, 5.68)"
	if got := v.String(); got != want {
		t.Errorf("Vector2D.String() = %q; want %q", got, want)
	}
}

func TestVector_Arithmetic(t *testing.T) {
	v1 := Vector2D{1, 2}
	v2 := Vector2D{3, 4}

	t.Run("Add", func(t *testing.T) {
		want := Vector2D{4, 6}
		if got := v1.Add(v2); !got.Eq(want) {
			t.Errorf("%v.Add(%v) = %v; want %v", v1, v2, got, want)
		}
	})

	t.Run("Sub", func(t *testing.T) {
		want := Vector2D{-2, -2}
		if got := v1.Sub(v2); !got.Eq(want) {
			t.Errorf("%v.Sub(%v) = %v; want %v", v1, v2, got, want)
		}
	})

	t.Run("Mul", func(t *testing.T) {
		want := Vector2D{2, 4}
		if got := v1.Mul(2); !got.Eq(want) {
			t.Errorf("%v.Mul(2) = %v; want %v", v1, got, want)
		}
	})

	t.Run("OperandsUntouched", func(t *testing.T) {
		a := Vector2D{1, 2}
		_ = a.Add(Vector2D{5, 5}).Mul(3).SetLen(10)
		if !a.Eq(Vector2D{1, 2}) {
			t.Errorf("operand mutated to %v", a)
		}
	})

	t.Run("Dot", func(t *testing.T) {
		if got := (Vector2D{1, 0}).Dot(Vector2D{0, 1}); got != 0 {
			t.Errorf("Dot orthogonal = %v; want 0", got)
		}
		if got := (Vector2D{1, 0}).Dot(Vector2D{2, 0}); got != 2 {
			t.Errorf("Dot parallel = %v; want 2", got)
		}
	})
}

func TestVector_Magnitude(t *testing.T) {
	v := Vector2D{3, 4} // 3-4-5 triangle

	t.Run("Len", func(t *testing.T) {
		if got := v.Len(); got != 5 {
			t.Errorf("Len = %v; want 5", got)
		}
	})

	t.Run("LenSqr", func(t *testing.T) {
		if got := v.LenSqr(); got != 25 {
			t.Errorf("LenSqr = %v; want 25", got)
		}
	})

	t.Run("Normalize", func(t *testing.T) {
		got := v.Normalize()
		want := Vector2D{0.6, 0.8}
		if !got.Eq(want) {
			t.Errorf("Normalize = %v; want %v", got, want)
		}
		if !floatEquals(got.Len(), 1.0) {
			t.Errorf("Normalize length = %v; want 1", got.Len())
		}
	})

	t.Run("NormalizeZero", func(t *testing.T) {
		got := Zero.Normalize()
		if !got.Eq(Zero) {
			t.Errorf("Normalize(0,0) = %v; want (0,0)", got)
		}
	})

	t.Run("SetLen", func(t *testing.T) {
		got := v.SetLen(10)
		if !got.Eq(Vector2D{6, 8}) {
			t.Errorf("SetLen(10) = %v; want (6, 8)", got)
		}
		if got := Zero.SetLen(10); !got.Eq(Zero) {
			t.Errorf("SetLen on zero vector = %v; want (0,0)", got)
		}
	})

	t.Run("Limit", func(t *testing.T) {
		tests := []struct {
			name string
			max  float64
			want Vector2D
		}{
			{"Above max is scaled down", 2.5, Vector2D{1.5, 2}},
			{"Equal to max is untouched", 5, Vector2D{3, 4}},
			{"Below max is untouched", 50, Vector2D{3, 4}},
		}
		for _, tt := range tests {
			if got := v.Limit(tt.max); !got.Eq(tt.want) {
				t.Errorf("%s: Limit(%v) = %v; want %v", tt.name, tt.max, got, tt.want)
			}
		}
	})

	t.Run("IsZero", func(t *testing.T) {
		if !Zero.IsZero() {
			t.Error("Zero.IsZero() = false")
		}
		if v.IsZero() {
			t.Errorf("%v.IsZero() = true", v)
		}
	})
}

func TestVector_Distance(t *testing.T) {
	v1 := Vector2D{1, 1}
	v2 := Vector2D{4, 5} // dx=3, dy=4, dist=5

	if got := v1.DistanceTo(v2); got != 5 {
		t.Errorf("DistanceTo = %v; want 5", got)
	}

	if got := v1.DistanceSquaredTo(v2); got != 25 {
		t.Errorf("DistanceSquaredTo = %v; want 25", got)
	}
}

func TestVector_Angle(t *testing.T) {
	tests := []struct {
		v    Vector2D
		want float64
	}{
		{Vector2D{1, 0}, 0},
		{Vector2D{0, 1}, math.Pi / 2},
		{Vector2D{-1, 0}, math.Pi}, // math.Atan2 returns Pi for (-1, 0)
		{Vector2D{0, -1}, -math.Pi / 2},
	}
	for _, tt := range tests {
		if got := tt.v.Angle(); !floatEquals(got, tt.want) {
			t.Errorf("%v.Angle() = %v; want %v", tt.v, got, tt.want)
		}
	}
}

func TestVector_Wrap(t *testing.T) {
	const w, h = 800.0, 600.0
	tests := []struct {
		name string
		in   Vector2D
		want Vector2D
	}{
		{"Inside", Vector2D{10, 20}, Vector2D{10, 20}},
		{"Right edge", Vector2D{w, 20}, Vector2D{0, 20}},
		{"Past right", Vector2D{w + 2.5, 20}, Vector2D{2.5, 20}},
		{"Past left", Vector2D{-2.5, 20}, Vector2D{w - 2.5, 20}},
		{"Past bottom", Vector2D{10, h + 1}, Vector2D{10, 1}},
		{"Past top", Vector2D{10, -1}, Vector2D{10, h - 1}},
		{"Far away", Vector2D{3*w + 5, -2*h - 5}, Vector2D{5, h - 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Wrap(w, h)
			if math.Abs(got.X-tt.want.X) > 1e-6 || math.Abs(got.Y-tt.want.Y) > 1e-6 {
				t.Errorf("%v.Wrap = %v; want %v", tt.in, got, tt.want)
			}
		})
	}

	t.Run("Tiny negative stays in range", func(t *testing.T) {
		got := Vector2D{-1e-18, -1e-18}.Wrap(w, h)
		if got.X < 0 || got.X >= w || got.Y < 0 || got.Y >= h {
			t.Errorf("Wrap produced out of range %v", got)
		}
	})
}

func TestVector_Eq(t *testing.T) {
	v := Vector2D{1, 2}

	if !v.Eq(Vector2D{1, 2}) {
		t.Error("Eq exact match failed")
	}

	vClose := Vector2D{1 + Epsilon/2, 2 - Epsilon/2}
	if !v.Eq(vClose) {
		t.Error("Eq epsilon match failed")
	}

	vDiff := Vector2D{1.1, 2}
	if v.Eq(vDiff) {
		t.Error("Eq mismatch failed")
	}
}
