package nav

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestFillGapsHonorsHorizontalSpacing(t *testing.T) {
	cfg := DefaultConfig()
	points := []r3.Vec{{X: 0}, {X: 10}}
	filled := fillGaps(points, cfg)

	if filled[0] != points[0] || filled[len(filled)-1] != points[1] {
		t.Fatalf("endpoints not preserved: %v", filled)
	}
	for i := 1; i < len(filled); i++ {
		h := math.Hypot(filled[i].X-filled[i-1].X, filled[i].Z-filled[i-1].Z)
		if h > cfg.NodeSpacing+1e-9 {
			t.Fatalf("gap %d spans %v, exceeds spacing %v", i, h, cfg.NodeSpacing)
		}
	}
}

func TestFillGapsCapsVerticalStep(t *testing.T) {
	cfg := DefaultConfig()
	points := []r3.Vec{{X: 0, Y: 0}, {X: 3, Y: 10}, {X: 6, Y: -5}}
	filled := fillGaps(points, cfg)

	for i := 1; i < len(filled); i++ {
		dy := math.Abs(filled[i].Y - filled[i-1].Y)
		if dy > cfg.MaxVerticalStep+1e-9 {
			t.Fatalf("step %d climbs %v, exceeds cap %v", i, dy, cfg.MaxVerticalStep)
		}
	}
	if last := filled[len(filled)-1]; last != points[2] {
		t.Fatalf("final point moved: got %v, want %v", last, points[2])
	}
}

func TestFillGapsShortInput(t *testing.T) {
	cfg := DefaultConfig()
	if got := fillGaps(nil, cfg); got != nil {
		t.Fatalf("expected nil passthrough, got %v", got)
	}
	one := []r3.Vec{{X: 1}}
	if got := fillGaps(one, cfg); len(got) != 1 || got[0] != one[0] {
		t.Fatalf("expected single-point passthrough, got %v", got)
	}
}

func TestSmoothPathAveragesInteriorPoints(t *testing.T) {
	cfg := DefaultConfig()
	points := []r3.Vec{{X: 0, Z: 0}, {X: 3, Z: 3}, {X: 6, Z: 0}}
	out := smoothPath(points, nil, cfg)

	if out[0] != points[0] || out[2] != points[2] {
		t.Fatalf("endpoints not preserved: %v", out)
	}
	want := r3.Vec{X: 3, Z: 1}
	if math.Abs(out[1].X-want.X) > 1e-9 || math.Abs(out[1].Z-want.Z) > 1e-9 {
		t.Fatalf("midpoint = %v, want %v", out[1], want)
	}
}

func TestSmoothPathKeepsTransitionPointsExact(t *testing.T) {
	cfg := DefaultConfig()
	interior := &stubInterior{insideFn: func(p r3.Vec) bool { return p.X < 0 }}

	points := []r3.Vec{
		{X: -6, Z: 0},
		{X: -3, Z: 2},
		{X: -1, Z: 0}, // last interior point before crossing outside
		{X: 2, Z: 2},
		{X: 5, Z: 0},
	}
	out := smoothPath(points, interior, cfg)

	if out[2] != points[2] {
		t.Fatalf("transition point moved: got %v, want %v", out[2], points[2])
	}
	if out[1] == points[1] {
		t.Fatal("expected non-transition point to be smoothed")
	}
	if out[3] == points[3] {
		t.Fatal("expected point past the boundary to be smoothed")
	}
}

func TestClampStep(t *testing.T) {
	cases := []struct {
		y, prev, step, want float64
	}{
		{5, 0, 1.25, 1.25},
		{-5, 0, 1.25, -1.25},
		{0.5, 0, 1.25, 0.5},
		{1.25, 0, 1.25, 1.25},
	}
	for _, tc := range cases {
		if got := clampStep(tc.y, tc.prev, tc.step); got != tc.want {
			t.Errorf("clampStep(%v, %v, %v) = %v, want %v", tc.y, tc.prev, tc.step, got, tc.want)
		}
	}
}

func TestDedupeConsecutive(t *testing.T) {
	points := []r3.Vec{{X: 1}, {X: 1}, {X: 2}, {X: 2}, {X: 1}}
	out := dedupeConsecutive(points)
	want := []r3.Vec{{X: 1}, {X: 2}, {X: 1}}
	if len(out) != len(want) {
		t.Fatalf("dedupe = %v, want %v", out, want)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("dedupe = %v, want %v", out, want)
		}
	}
}
