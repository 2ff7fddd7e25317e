package nav

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// transitionPoint is a candidate crossing between interior and exterior
// space, discovered on demand and discarded with the query.
type transitionPoint struct {
	cell       [3]int
	pos        r3.Vec
	distance   float64
	clearance  float64
	approachOK bool
}

var cardinalDirs = [4][2]int{
	{1, 0},
	{-1, 0},
	{0, 1},
	{0, -1},
}

func cellOf(p r3.Vec) [3]int {
	return [3]int{
		int(math.Floor(p.X)),
		int(math.Floor(p.Y)),
		int(math.Floor(p.Z)),
	}
}

func cellCenter(c [3]int) r3.Vec {
	return r3.Vec{X: float64(c[0]) + 0.5, Y: float64(c[1]), Z: float64(c[2]) + 0.5}
}

// visitShell walks the outer perimeter of the (2r+1)^2 square at radius r,
// so growing rings never rescan interior cells.
func visitShell(r int, fn func(dx, dz int)) {
	if r <= 0 {
		return
	}
	for dx := -r; dx <= r; dx++ {
		fn(dx, -r)
		fn(dx, r)
	}
	for dz := -r + 1; dz <= r-1; dz++ {
		fn(-r, dz)
		fn(r, dz)
	}
}

// discoverTransitions searches expanding rings around ref for valid
// interior/exterior crossing points. The search stops at the first ring
// radius that yields any candidate and returns the best few, ranked by
// distance over clearance; candidates with a walkable approach sort ahead
// of those without one.
func discoverTransitions(ref r3.Vec, world WorldQuery, interior InteriorNavigator, cfg Config) []transitionPoint {
	if world == nil || interior == nil {
		return nil
	}
	origin := cellOf(ref)

	for radius := 1; radius <= cfg.ExitSearchRange; radius++ {
		var found []transitionPoint
		visitShell(radius, func(dx, dz int) {
			for dy := -exitVerticalRange; dy <= exitVerticalRange; dy++ {
				cell := [3]int{origin[0] + dx, origin[1] + dy, origin[2] + dz}
				candidate, ok := evaluateTransition(cell, ref, world, interior, cfg)
				if ok {
					found = append(found, candidate)
				}
			}
		})
		if len(found) == 0 {
			continue
		}
		sort.SliceStable(found, func(i, j int) bool {
			if found[i].approachOK != found[j].approachOK {
				return found[i].approachOK
			}
			return found[i].score() < found[j].score()
		})
		if len(found) > maxTransitionCandidates {
			found = found[:maxTransitionCandidates]
		}
		return found
	}
	return nil
}

func (t transitionPoint) score() float64 {
	if t.clearance <= 0 {
		return math.MaxFloat64
	}
	return t.distance / t.clearance
}

// evaluateTransition checks one cell against the transition criteria:
// standable (passable with headroom over solid ground) and straddling the
// inside/outside boundary via at least one cardinal neighbor.
func evaluateTransition(cell [3]int, ref r3.Vec, world WorldQuery, interior InteriorNavigator, cfg Config) (transitionPoint, bool) {
	if !standable(world, cell) {
		return transitionPoint{}, false
	}

	center := cellCenter(cell)
	inside := interior.IsInsideBuilding(center)
	exteriorDir := [2]int{}
	straddles := false
	for _, dir := range cardinalDirs {
		neighbor := [3]int{cell[0] + dir[0], cell[1], cell[2] + dir[1]}
		if interior.IsInsideBuilding(cellCenter(neighbor)) == inside {
			continue
		}
		straddles = true
		if inside {
			exteriorDir = dir
		} else {
			exteriorDir = [2]int{-dir[0], -dir[1]}
		}
		break
	}
	if !straddles {
		return transitionPoint{}, false
	}

	point := transitionPoint{
		cell:      cell,
		pos:       center,
		distance:  r3.Norm(r3.Sub(center, ref)),
		clearance: clearanceScore(world, cell),
	}
	approach := [3]int{
		cell[0] + exteriorDir[0]*exitApproachOffset,
		cell[1],
		cell[2] + exteriorDir[1]*exitApproachOffset,
	}
	point.approachOK = standable(world, approach)
	return point, true
}

func standable(world WorldQuery, c [3]int) bool {
	return world.Passable(c[0], c[1], c[2]) &&
		world.Passable(c[0], c[1]+1, c[2]) &&
		world.Solid(c[0], c[1]-1, c[2])
}

// clearanceScore sums inverse distances over the 5x5 horizontal
// neighborhood, counting cells that are passable with headroom. Open
// plazas score high, doorways hemmed in by walls score low.
func clearanceScore(world WorldQuery, cell [3]int) float64 {
	score := 0.0
	for dz := -exitClearanceRadius; dz <= exitClearanceRadius; dz++ {
		for dx := -exitClearanceRadius; dx <= exitClearanceRadius; dx++ {
			if dx == 0 && dz == 0 {
				continue
			}
			x, z := cell[0]+dx, cell[2]+dz
			if !world.Passable(x, cell[1], z) || !world.Passable(x, cell[1]+1, z) {
				continue
			}
			score += 1.0 / math.Hypot(float64(dx), float64(dz))
		}
	}
	return score
}
