package nav

import "math"

type cellKey struct {
	X int
	Z int
}

// cellGrid buckets region-node indices into fixed-size XZ cells so the
// connection pass only examines a node's own cell and the 8 around it.
// It lives for a single query.
type cellGrid struct {
	cellSize    float64
	invCellSize float64
	cells       map[cellKey][]int32
}

func newCellGrid(connectionRange float64) *cellGrid {
	size := math.Ceil(connectionRange)
	if size <= 0 {
		size = 1
	}
	return &cellGrid{
		cellSize:    size,
		invCellSize: 1.0 / size,
		cells:       make(map[cellKey][]int32),
	}
}

func (g *cellGrid) keyFor(x, z float64) cellKey {
	return cellKey{
		X: int(math.Floor(x * g.invCellSize)),
		Z: int(math.Floor(z * g.invCellSize)),
	}
}

func (g *cellGrid) insert(idx int32, x, z float64) {
	key := g.keyFor(x, z)
	g.cells[key] = append(g.cells[key], idx)
}

// visitNeighborhood calls fn for every node index bucketed in the cell
// containing (x, z) or one of its 8 neighbors. Visit order is fixed:
// cells row-major, indices in insertion order, so queries stay
// deterministic for an unchanged dataset.
func (g *cellGrid) visitNeighborhood(x, z float64, fn func(idx int32)) {
	center := g.keyFor(x, z)
	for dz := -1; dz <= 1; dz++ {
		for dx := -1; dx <= 1; dx++ {
			key := cellKey{X: center.X + dx, Z: center.Z + dz}
			for _, idx := range g.cells[key] {
				fn(idx)
			}
		}
	}
}
