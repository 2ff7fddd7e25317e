package nav

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

type connection struct {
	target int32
	cost   float64
}

// regionNode wraps one dataset node for the lifetime of a single query.
// Nodes are arena-allocated and referenced by index; the whole graph is
// dropped when the query returns.
type regionNode struct {
	pos   r3.Vec
	cost  float64
	road  bool
	edges []connection
}

type regionGraph struct {
	nodes []regionNode
}

// buildRegionGraph selects every dataset node within the query radius of
// the start/goal midpoint and connects nodes within ConnectionRange of
// each other. An empty graph is a valid outcome; the caller reports no
// route.
func buildRegionGraph(nodes []Node, start, goal r3.Vec, cfg Config) *regionGraph {
	mid := r3.Scale(0.5, r3.Add(start, goal))
	radius := cfg.SearchRadius
	if span := r3.Norm(r3.Sub(start, goal)) * spanRadiusFactor; span > radius {
		radius = span
	}
	radiusSq := radius * radius

	graph := &regionGraph{}
	grid := newCellGrid(cfg.ConnectionRange)
	for i := range nodes {
		d := r3.Sub(nodes[i].Pos, mid)
		if d.X*d.X+d.Y*d.Y+d.Z*d.Z > radiusSq {
			continue
		}
		idx := int32(len(graph.nodes))
		graph.nodes = append(graph.nodes, regionNode{
			pos:  nodes[i].Pos,
			cost: nodes[i].Cost,
			road: cfg.isRoad(nodes[i].Cost),
		})
		grid.insert(idx, nodes[i].Pos.X, nodes[i].Pos.Z)
	}

	rangeSq := cfg.ConnectionRange * cfg.ConnectionRange
	for i := range graph.nodes {
		node := &graph.nodes[i]
		grid.visitNeighborhood(node.pos.X, node.pos.Z, func(j int32) {
			if int32(i) == j {
				return
			}
			other := &graph.nodes[j]
			d := r3.Sub(other.pos, node.pos)
			if d.X*d.X+d.Y*d.Y+d.Z*d.Z > rangeSq {
				return
			}
			cost := math.Max(node.cost, other.cost)
			if node.road || other.road {
				cost *= 0.1
			}
			node.edges = append(node.edges, connection{target: j, cost: cost})
		})
	}
	return graph
}

// nearestTo picks the region node for a query point. Road nodes get a
// 4x distance advantage: a farther road node can beat a nearer expensive
// node. Returns -1 on an empty graph.
func (g *regionGraph) nearestTo(p r3.Vec) int32 {
	best := int32(-1)
	bestScore := math.MaxFloat64
	for i := range g.nodes {
		dx := g.nodes[i].pos.X - p.X
		dz := g.nodes[i].pos.Z - p.Z
		score := dx*dx + dz*dz
		if g.nodes[i].road {
			score *= nearestRoadBias
		}
		if score < bestScore {
			bestScore = score
			best = int32(i)
		}
	}
	return best
}
