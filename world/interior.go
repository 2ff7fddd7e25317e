package world

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// interiorSearchBudget caps BFS expansion so a malformed building volume
// cannot stall a routing query.
const interiorSearchBudget = 4096

// Interior resolves routes inside the map's building volumes with a
// breadth-first walk over standable cells. It implements the pathfinder's
// interior-navigator contract; production deployments substitute the real
// interior service.
type Interior struct {
	m *Map
}

func NewInterior(m *Map) *Interior {
	return &Interior{m: m}
}

func (n *Interior) IsInsideBuilding(pos r3.Vec) bool {
	return n.m.IsInsideBuilding(pos)
}

// FindInteriorPath walks standable interior cells from start to goal.
// Returns an empty slice when either endpoint is outside every building
// or no connected route exists within the search budget.
func (n *Interior) FindInteriorPath(start, goal r3.Vec) []r3.Vec {
	startCell := cellOf(start)
	goalCell := cellOf(goal)
	// The goal may be a transition cell on the exterior side of a doorway,
	// so it only needs to be standable when it is not interior space.
	if !n.allowed(startCell) && !n.allowed(goalCell) {
		return nil
	}
	if !n.allowed(goalCell) && !n.standable(goalCell) {
		return nil
	}
	if !n.allowed(startCell) && !n.standable(startCell) {
		return nil
	}
	if startCell == goalCell {
		return []r3.Vec{start, goal}
	}

	type step struct {
		cell [3]int
		prev int
	}
	visited := map[[3]int]struct{}{startCell: {}}
	queue := []step{{cell: startCell, prev: -1}}

	goalIdx := -1
	for head := 0; head < len(queue) && len(queue) < interiorSearchBudget; head++ {
		current := queue[head]
		if current.cell == goalCell {
			goalIdx = head
			break
		}
		for _, dir := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			for dy := -1; dy <= 1; dy++ {
				next := [3]int{current.cell[0] + dir[0], current.cell[1] + dy, current.cell[2] + dir[1]}
				if _, seen := visited[next]; seen {
					continue
				}
				if next != goalCell {
					if !n.allowed(next) || !n.standable(next) {
						continue
					}
				}
				visited[next] = struct{}{}
				queue = append(queue, step{cell: next, prev: head})
			}
		}
	}
	if goalIdx < 0 {
		return nil
	}

	var cells [][3]int
	for idx := goalIdx; idx >= 0; idx = queue[idx].prev {
		cells = append(cells, queue[idx].cell)
	}
	path := make([]r3.Vec, 0, len(cells))
	path = append(path, start)
	for i := len(cells) - 2; i >= 1; i-- {
		c := cells[i]
		path = append(path, r3.Vec{X: float64(c[0]) + 0.5, Y: float64(c[1]), Z: float64(c[2]) + 0.5})
	}
	path = append(path, goal)
	return path
}

// allowed restricts the walk to interior space so routes cannot leak
// outdoors except through the endpoints the resolver chose.
func (n *Interior) allowed(c [3]int) bool {
	center := r3.Vec{X: float64(c[0]) + 0.5, Y: float64(c[1]), Z: float64(c[2]) + 0.5}
	return n.m.IsInsideBuilding(center)
}

func (n *Interior) standable(c [3]int) bool {
	return n.m.Passable(c[0], c[1], c[2]) &&
		n.m.Passable(c[0], c[1]+1, c[2]) &&
		n.m.Solid(c[0], c[1]-1, c[2])
}

func cellOf(p r3.Vec) [3]int {
	return [3]int{
		int(math.Floor(p.X)),
		int(math.Floor(p.Y)),
		int(math.Floor(p.Z)),
	}
}
