package nav

import (
	"container/heap"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

type searchNode struct {
	idx   int32
	g     float64
	f     float64
	index int
}

type searchQueue []*searchNode

func (pq searchQueue) Len() int { return len(pq) }

func (pq searchQueue) Less(i, j int) bool { return pq[i].f < pq[j].f }

func (pq searchQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *searchQueue) Push(x any) {
	n := len(*pq)
	item := x.(*searchNode)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *searchQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// verticalPenalty charges for elevation change beyond the tolerated
// per-step threshold.
func (c Config) verticalPenalty(dy float64) float64 {
	dy = math.Abs(dy)
	if dy <= c.VerticalDiffThreshold {
		return 0
	}
	return (dy - c.VerticalDiffThreshold) * c.VerticalPenalty
}

// heuristic estimates remaining cost with vertical travel weighted double
// plus the same vertical penalty the expansion step charges. The estimate
// can overestimate; the overweight is deliberate and produces routes that
// avoid unrealistic elevation changes instead of strictly shortest ones.
func (c Config) heuristic(from, to r3.Vec) float64 {
	dx := to.X - from.X
	dy := to.Y - from.Y
	dz := to.Z - from.Z
	return math.Sqrt(dx*dx+dz*dz+2*dy*dy) + c.verticalPenalty(dy)
}

// expansionCost is the charge for traversing one connection. The stored
// connection cost already folds in the road discount; expansion scales it
// up for expensive targets, punishes stepping off a road, and adds the
// vertical penalty.
func expansionCost(from, to *regionNode, edge connection, cfg Config) float64 {
	cost := edge.cost
	if to.cost > cfg.CheapNodeThreshold {
		cost *= cfg.ExpensiveNodeMultiplier
	}
	if from.road && !to.road {
		cost *= offRoadPenalty
	}
	return cost + cfg.verticalPenalty(to.pos.Y-from.pos.Y)
}

// findNodePath runs the weighted search from startIdx to goalIdx over the
// region graph. Returns the node-index route and the expansion count, or
// nil when the goal is unreachable.
func findNodePath(graph *regionGraph, startIdx, goalIdx int32, cfg Config) ([]int32, int) {
	n := len(graph.nodes)
	if n == 0 || startIdx < 0 || goalIdx < 0 {
		return nil, 0
	}
	if startIdx == goalIdx {
		return []int32{startIdx}, 0
	}

	goalPos := graph.nodes[goalIdx].pos
	gScore := make([]float64, n)
	cameFrom := make([]int32, n)
	closed := make([]bool, n)
	for i := range gScore {
		gScore[i] = math.MaxFloat64
		cameFrom[i] = -1
	}
	gScore[startIdx] = 0

	open := &searchQueue{}
	heap.Init(open)
	heap.Push(open, &searchNode{
		idx: startIdx,
		f:   cfg.heuristic(graph.nodes[startIdx].pos, goalPos),
	})

	expanded := 0
	for open.Len() > 0 {
		current := heap.Pop(open).(*searchNode)
		if closed[current.idx] {
			continue
		}
		closed[current.idx] = true
		expanded++
		if current.idx == goalIdx {
			return reconstructNodePath(cameFrom, goalIdx), expanded
		}

		node := &graph.nodes[current.idx]
		for _, edge := range node.edges {
			if closed[edge.target] {
				continue
			}
			next := &graph.nodes[edge.target]
			tentative := current.g + expansionCost(node, next, edge, cfg)
			if tentative >= gScore[edge.target] {
				continue
			}
			gScore[edge.target] = tentative
			cameFrom[edge.target] = current.idx
			heap.Push(open, &searchNode{
				idx: edge.target,
				g:   tentative,
				f:   tentative + cfg.heuristic(next.pos, goalPos),
			})
		}
	}
	return nil, expanded
}

func reconstructNodePath(cameFrom []int32, goalIdx int32) []int32 {
	path := []int32{goalIdx}
	for idx := cameFrom[goalIdx]; idx >= 0; idx = cameFrom[idx] {
		path = append(path, idx)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
