package nav

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// fillGaps interpolates evenly spaced points between consecutive
// waypoints. The step count honors both the horizontal spacing target and
// the vertical step cap; each emitted elevation is clamped against the
// previously emitted point so the route never climbs or drops faster than
// MaxVerticalStep.
func fillGaps(points []r3.Vec, cfg Config) []r3.Vec {
	if len(points) < 2 {
		return points
	}
	out := make([]r3.Vec, 0, len(points)*2)
	out = append(out, points[0])
	for i := 1; i < len(points); i++ {
		a := points[i-1]
		b := points[i]
		horizontal := math.Hypot(b.X-a.X, b.Z-a.Z)
		vertical := math.Abs(b.Y - a.Y)
		steps := int(math.Ceil(math.Max(horizontal/cfg.NodeSpacing, vertical/cfg.MaxVerticalStep)))
		if steps < 1 {
			steps = 1
		}
		for s := 1; s <= steps; s++ {
			t := float64(s) / float64(steps)
			p := r3.Vec{
				X: a.X + (b.X-a.X)*t,
				Y: a.Y + (b.Y-a.Y)*t,
				Z: a.Z + (b.Z-a.Z)*t,
			}
			p.Y = clampStep(p.Y, out[len(out)-1].Y, cfg.MaxVerticalStep)
			out = append(out, p)
		}
	}
	return out
}

// smoothPath runs a single 3-point moving-average pass over interior
// points. Endpoints are untouched. A point whose inside/outside state
// differs from the next point's marks a building transition and is kept
// bit-exact so smoothing cannot drag it through a wall. Smoothed
// elevations are additionally clamped against the previously emitted
// point.
func smoothPath(points []r3.Vec, interior InteriorNavigator, cfg Config) []r3.Vec {
	if len(points) < 3 {
		return points
	}
	inside := make([]bool, len(points))
	if interior != nil {
		for i := range points {
			inside[i] = interior.IsInsideBuilding(points[i])
		}
	}

	out := make([]r3.Vec, len(points))
	out[0] = points[0]
	for i := 1; i < len(points)-1; i++ {
		if inside[i] != inside[i+1] {
			out[i] = points[i]
			continue
		}
		p := r3.Scale(1.0/3.0, r3.Add(points[i-1], r3.Add(points[i], points[i+1])))
		p.Y = clampStep(p.Y, out[i-1].Y, cfg.MaxVerticalStep)
		out[i] = p
	}
	out[len(points)-1] = points[len(points)-1]
	return out
}

func clampStep(y, prev, maxStep float64) float64 {
	if y > prev+maxStep {
		return prev + maxStep
	}
	if y < prev-maxStep {
		return prev - maxStep
	}
	return y
}

func dedupeConsecutive(points []r3.Vec) []r3.Vec {
	if len(points) < 2 {
		return points
	}
	out := points[:1]
	for _, p := range points[1:] {
		last := out[len(out)-1]
		if p == last {
			continue
		}
		out = append(out, p)
	}
	return out
}
