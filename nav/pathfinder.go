package nav

import (
	"context"
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"wayfarer/server/logging"
	navlog "wayfarer/server/logging/navigation"
)

// Pathfinder computes walkable routes over a shared nav-node dataset.
// Construction is explicit: the node snapshot and both collaborators are
// injected, so the pathfinder carries no global state and a zero-value
// fake world is enough to test it.
//
// Every query allocates its own region graph and search state, so a
// single Pathfinder is safe for concurrent FindRoute calls.
type Pathfinder struct {
	nodes    []Node
	interior InteriorNavigator
	world    WorldQuery
	cfg      Config
	pub      logging.Publisher
}

// NewPathfinder snapshots nodes and wires the collaborators. interior and
// world may be nil when the caller routes exterior-only space; pub may be
// nil to disable event publishing.
func NewPathfinder(nodes []Node, interior InteriorNavigator, world WorldQuery, cfg Config, pub logging.Publisher) *Pathfinder {
	if pub == nil {
		pub = logging.NopPublisher()
	}
	return &Pathfinder{
		nodes:    append([]Node(nil), nodes...),
		interior: interior,
		world:    world,
		cfg:      cfg.normalized(),
		pub:      pub,
	}
}

// FindPath preserves the original binary contract: an ordered coordinate
// sequence, or an empty one when no route could be resolved for any
// reason.
func (p *Pathfinder) FindPath(start, goal r3.Vec) []r3.Vec {
	route := p.FindRoute(start, goal)
	if route.Status != StatusFound {
		return nil
	}
	return route.Points
}

// FindRoute classifies both endpoints as inside or outside building space
// and dispatches to one of four routing cases. All failure modes degrade
// to a routeless result; nothing here is fatal.
func (p *Pathfinder) FindRoute(start, goal r3.Vec) Route {
	began := time.Now()
	route := p.resolve(start, goal)
	navlog.RouteResolved(context.Background(), p.pub, navlog.RouteResolvedPayload{
		Status:         route.Status.String(),
		Waypoints:      len(route.Points),
		NodesSelected:  route.Stats.NodesSelected,
		NodesExpanded:  route.Stats.NodesExpanded,
		ExitsTried:     route.Stats.ExitsTried,
		DurationMillis: time.Since(began).Milliseconds(),
	})
	return route
}

func (p *Pathfinder) resolve(start, goal r3.Vec) Route {
	if !finiteVec(start) || !finiteVec(goal) {
		return Route{Status: StatusNoRoute}
	}

	startInside := p.isInside(start)
	goalInside := p.isInside(goal)

	switch {
	case startInside && goalInside:
		return p.resolveBothInside(start, goal)
	case startInside:
		return p.resolveFromInside(start, goal)
	case goalInside:
		return p.resolveToInside(start, goal)
	default:
		return p.resolveOutside(start, goal)
	}
}

// resolveBothInside tries the interior navigator directly for nearby
// endpoints; region graphs are only built when that fails or the span is
// too large, in which case the route goes outside through a validated
// exit and back in through a validated entrance.
func (p *Pathfinder) resolveBothInside(start, goal r3.Vec) Route {
	var route Route
	if r3.Norm(r3.Sub(start, goal)) <= p.cfg.MaxInteriorDistance {
		if direct := p.interiorPath(start, goal); len(direct) > 0 {
			route.Status = StatusFound
			route.Points = direct
			return route
		}
	}

	exits := discoverTransitions(start, p.world, p.interior, p.cfg)
	entrances := discoverTransitions(goal, p.world, p.interior, p.cfg)
	if len(exits) == 0 || len(entrances) == 0 {
		route.Status = StatusNoRoute
		return route
	}
	for _, exit := range exits {
		route.Stats.ExitsTried++
		head := p.interiorPath(start, exit.pos)
		if len(head) == 0 {
			continue
		}
		for _, entrance := range entrances {
			outside, ok := p.exteriorSegment(exit.pos, entrance.pos, &route.Stats)
			if !ok {
				continue
			}
			tail := p.interiorPath(entrance.pos, goal)
			if len(tail) == 0 {
				continue
			}
			waypoints := composeWaypoints(start, goal, head, []r3.Vec{exit.pos}, outside, []r3.Vec{entrance.pos}, tail)
			route.Status = StatusFound
			route.Points = p.postProcess(waypoints)
			return route
		}
	}
	route.Status = StatusExhausted
	return route
}

// resolveFromInside walks ranked exits near the start; the first exit
// with both a working interior leg and a working exterior leg wins.
func (p *Pathfinder) resolveFromInside(start, goal r3.Vec) Route {
	var route Route
	exits := discoverTransitions(start, p.world, p.interior, p.cfg)
	if len(exits) == 0 {
		route.Status = StatusNoRoute
		return route
	}
	for _, exit := range exits {
		route.Stats.ExitsTried++
		head := p.interiorPath(start, exit.pos)
		if len(head) == 0 {
			continue
		}
		outside, ok := p.exteriorSegment(exit.pos, goal, &route.Stats)
		if !ok {
			continue
		}
		waypoints := composeWaypoints(start, goal, head, []r3.Vec{exit.pos}, outside)
		route.Status = StatusFound
		route.Points = p.postProcess(waypoints)
		return route
	}
	route.Status = StatusExhausted
	return route
}

// resolveToInside mirrors resolveFromInside with entrances near the goal.
func (p *Pathfinder) resolveToInside(start, goal r3.Vec) Route {
	var route Route
	entrances := discoverTransitions(goal, p.world, p.interior, p.cfg)
	if len(entrances) == 0 {
		route.Status = StatusNoRoute
		return route
	}
	for _, entrance := range entrances {
		route.Stats.ExitsTried++
		outside, ok := p.exteriorSegment(start, entrance.pos, &route.Stats)
		if !ok {
			continue
		}
		tail := p.interiorPath(entrance.pos, goal)
		if len(tail) == 0 {
			continue
		}
		waypoints := composeWaypoints(start, goal, outside, []r3.Vec{entrance.pos}, tail)
		route.Status = StatusFound
		route.Points = p.postProcess(waypoints)
		return route
	}
	route.Status = StatusExhausted
	return route
}

func (p *Pathfinder) resolveOutside(start, goal r3.Vec) Route {
	var route Route
	outside, ok := p.exteriorSegment(start, goal, &route.Stats)
	if !ok {
		route.Status = StatusNoRoute
		return route
	}
	waypoints := composeWaypoints(start, goal, outside)
	route.Status = StatusFound
	route.Points = p.postProcess(waypoints)
	return route
}

// exteriorSegment builds the ephemeral region graph for one exterior leg
// and runs the weighted search over it. The returned waypoints are node
// positions only; the caller brackets them with the query endpoints.
func (p *Pathfinder) exteriorSegment(from, to r3.Vec, stats *Stats) ([]r3.Vec, bool) {
	graph := buildRegionGraph(p.nodes, from, to, p.cfg)
	stats.NodesSelected += len(graph.nodes)
	if len(graph.nodes) == 0 {
		return nil, false
	}
	startIdx := graph.nearestTo(from)
	goalIdx := graph.nearestTo(to)
	indices, expanded := findNodePath(graph, startIdx, goalIdx, p.cfg)
	stats.NodesExpanded += expanded
	if indices == nil {
		return nil, false
	}
	points := make([]r3.Vec, len(indices))
	for i, idx := range indices {
		points[i] = graph.nodes[idx].pos
	}
	return points, true
}

func (p *Pathfinder) interiorPath(start, goal r3.Vec) []r3.Vec {
	if p.interior == nil {
		return nil
	}
	return p.interior.FindInteriorPath(start, goal)
}

func (p *Pathfinder) isInside(pos r3.Vec) bool {
	if p.interior == nil {
		return false
	}
	return p.interior.IsInsideBuilding(pos)
}

// postProcess gap-fills and smooths an assembled route.
func (p *Pathfinder) postProcess(points []r3.Vec) []r3.Vec {
	points = fillGaps(points, p.cfg)
	return smoothPath(points, p.interior, p.cfg)
}

func composeWaypoints(start, goal r3.Vec, segments ...[]r3.Vec) []r3.Vec {
	total := 2
	for _, seg := range segments {
		total += len(seg)
	}
	points := make([]r3.Vec, 0, total)
	points = append(points, start)
	for _, seg := range segments {
		points = append(points, seg...)
	}
	points = append(points, goal)
	return dedupeConsecutive(points)
}

func finiteVec(v r3.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}
