package nav

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/spatial/r3"

	"wayfarer/server/world"
)

// stubInterior scripts the interior-navigator contract for tests that do
// not need real building geometry.
type stubInterior struct {
	insideFn  func(r3.Vec) bool
	pathFn    func(start, goal r3.Vec) []r3.Vec
	pathCalls int
}

func (s *stubInterior) IsInsideBuilding(pos r3.Vec) bool {
	if s.insideFn == nil {
		return false
	}
	return s.insideFn(pos)
}

func (s *stubInterior) FindInteriorPath(start, goal r3.Vec) []r3.Vec {
	s.pathCalls++
	if s.pathFn == nil {
		return nil
	}
	return s.pathFn(start, goal)
}

// buildDoorwayWorld assembles a walled building with a single east-facing
// doorway on flat ground. Berms seal the other three exterior faces so the
// doorway is the only interior/exterior crossing.
func buildDoorwayWorld() (*world.Map, *world.Interior) {
	m := world.NewMap()
	m.FillSolid(world.Box{MinX: -12, MinY: -1, MinZ: -8, MaxX: 20, MaxY: -1, MaxZ: 8})
	m.AddBuilding(world.Box{MinX: -6, MinY: 0, MinZ: -2, MaxX: -2, MaxY: 2, MaxZ: 2})

	// west, north and south walls
	m.FillSolid(world.Box{MinX: -6, MinY: 0, MinZ: -2, MaxX: -6, MaxY: 2, MaxZ: 2})
	m.FillSolid(world.Box{MinX: -5, MinY: 0, MinZ: -2, MaxX: -3, MaxY: 2, MaxZ: -2})
	m.FillSolid(world.Box{MinX: -5, MinY: 0, MinZ: 2, MaxX: -3, MaxY: 2, MaxZ: 2})
	// east wall with a two-cell doorway at z=0
	for z := -2; z <= 2; z++ {
		if z == 0 {
			continue
		}
		m.FillSolid(world.Box{MinX: -2, MinY: 0, MinZ: z, MaxX: -2, MaxY: 2, MaxZ: z})
	}
	m.SetSolid(-2, 2, 0) // lintel
	// berms along the sealed faces
	m.FillSolid(world.Box{MinX: -7, MinY: 0, MinZ: -3, MaxX: -7, MaxY: 2, MaxZ: 3})
	m.FillSolid(world.Box{MinX: -7, MinY: 0, MinZ: -3, MaxX: -1, MaxY: 2, MaxZ: -3})
	m.FillSolid(world.Box{MinX: -7, MinY: 0, MinZ: 3, MaxX: -1, MaxY: 2, MaxZ: 3})
	return m, world.NewInterior(m)
}

func doorwayNodes() []Node {
	return []Node{
		{Pos: r3.Vec{X: 3, Y: 0, Z: 0.5}, Cost: 8},
		{Pos: r3.Vec{X: 8, Y: 0, Z: 0.5}, Cost: 8},
	}
}

func maxVerticalStep(t *testing.T, points []r3.Vec, cap float64) {
	t.Helper()
	for i := 1; i < len(points); i++ {
		if dy := math.Abs(points[i].Y - points[i-1].Y); dy > cap+1e-9 {
			t.Fatalf("step %d climbs %v, exceeds cap %v", i, dy, cap)
		}
	}
}

func TestFindRouteAlongRoadLine(t *testing.T) {
	nodes := make([]Node, 0, 7)
	for x := 0; x <= 30; x += 5 {
		nodes = append(nodes, Node{Pos: r3.Vec{X: float64(x), Y: 64, Z: 0}, Cost: 8})
	}
	p := NewPathfinder(nodes, nil, nil, DefaultConfig(), nil)

	start := r3.Vec{X: 0, Y: 64, Z: 0}
	goal := r3.Vec{X: 30, Y: 64, Z: 0}
	route := p.FindRoute(start, goal)
	if route.Status != StatusFound {
		t.Fatalf("status = %v, want found", route.Status)
	}
	if len(route.Points) < 2 {
		t.Fatalf("expected a multi-point route, got %v", route.Points)
	}
	if first := route.Points[0]; first != start {
		t.Fatalf("route starts at %v, want %v", first, start)
	}
	if last := route.Points[len(route.Points)-1]; last != goal {
		t.Fatalf("route ends at %v, want %v", last, goal)
	}
	for i, pt := range route.Points {
		if pt.Y != 64 || pt.Z != 0 {
			t.Fatalf("point %d strays off the road line: %v", i, pt)
		}
	}
	for i := 1; i < len(route.Points); i++ {
		h := route.Points[i].X - route.Points[i-1].X
		if h < 0 || h > DefaultConfig().NodeSpacing+1e-9 {
			t.Fatalf("spacing between points %d and %d is %v", i-1, i, h)
		}
	}
	if route.Stats.NodesSelected != len(nodes) {
		t.Fatalf("NodesSelected = %d, want %d", route.Stats.NodesSelected, len(nodes))
	}
}

func TestFindRouteNoNodesInRegion(t *testing.T) {
	nodes := []Node{{Pos: r3.Vec{X: 500, Y: 0, Z: 500}, Cost: 8}}
	p := NewPathfinder(nodes, nil, nil, DefaultConfig(), nil)

	route := p.FindRoute(r3.Vec{}, r3.Vec{X: 10})
	if route.Status != StatusNoRoute {
		t.Fatalf("status = %v, want no_route", route.Status)
	}
	if len(route.Points) != 0 {
		t.Fatalf("expected no points, got %v", route.Points)
	}
	if got := p.FindPath(r3.Vec{}, r3.Vec{X: 10}); got != nil {
		t.Fatalf("FindPath should return nil, got %v", got)
	}
}

func TestFindRouteExitsBuildingThroughDoorway(t *testing.T) {
	m, interior := buildDoorwayWorld()
	p := NewPathfinder(doorwayNodes(), interior, m, DefaultConfig(), nil)

	start := r3.Vec{X: -4.5, Y: 0, Z: 0.5}
	goal := r3.Vec{X: 8.5, Y: 0, Z: 0.5}
	route := p.FindRoute(start, goal)
	if route.Status != StatusFound {
		t.Fatalf("status = %v, want found", route.Status)
	}
	if route.Points[0] != start {
		t.Fatalf("route starts at %v, want %v", route.Points[0], start)
	}
	if last := route.Points[len(route.Points)-1]; last != goal {
		t.Fatalf("route ends at %v, want %v", last, goal)
	}

	door := r3.Vec{X: -1.5, Y: 0, Z: 0.5}
	foundDoor := false
	for _, pt := range route.Points {
		if pt == door {
			foundDoor = true
			break
		}
	}
	if !foundDoor {
		t.Fatalf("route never passes the doorway waypoint %v: %v", door, route.Points)
	}
	maxVerticalStep(t, route.Points, DefaultConfig().MaxVerticalStep)
	if route.Stats.ExitsTried != 1 {
		t.Fatalf("ExitsTried = %d, want 1", route.Stats.ExitsTried)
	}
}

func TestFindRouteEntersBuildingThroughDoorway(t *testing.T) {
	m, interior := buildDoorwayWorld()
	p := NewPathfinder(doorwayNodes(), interior, m, DefaultConfig(), nil)

	start := r3.Vec{X: 8.5, Y: 0, Z: 0.5}
	goal := r3.Vec{X: -4.5, Y: 0, Z: 0.5}
	route := p.FindRoute(start, goal)
	if route.Status != StatusFound {
		t.Fatalf("status = %v, want found", route.Status)
	}
	if route.Points[0] != start {
		t.Fatalf("route starts at %v, want %v", route.Points[0], start)
	}
	if last := route.Points[len(route.Points)-1]; last != goal {
		t.Fatalf("route ends at %v, want %v", last, goal)
	}

	// The route must funnel through the doorway column rather than a wall.
	throughDoor := false
	for _, pt := range route.Points {
		if pt.X > -2.5 && pt.X < -0.5 && pt.Z > 0 && pt.Z < 1 {
			throughDoor = true
			break
		}
	}
	if !throughDoor {
		t.Fatalf("route never passes near the doorway: %v", route.Points)
	}
	maxVerticalStep(t, route.Points, DefaultConfig().MaxVerticalStep)
}

func TestFindRouteExhaustsExitsWithoutNodes(t *testing.T) {
	m, interior := buildDoorwayWorld()
	p := NewPathfinder(nil, interior, m, DefaultConfig(), nil)

	route := p.FindRoute(r3.Vec{X: -4.5, Y: 0, Z: 0.5}, r3.Vec{X: 8.5, Y: 0, Z: 0.5})
	if route.Status != StatusExhausted {
		t.Fatalf("status = %v, want exhausted", route.Status)
	}
	if route.Stats.ExitsTried != 1 {
		t.Fatalf("ExitsTried = %d, want 1", route.Stats.ExitsTried)
	}
}

func TestFindRouteDirectInteriorBypassesRegionGraph(t *testing.T) {
	direct := []r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 5.5, Y: 0, Z: 1.5}, {X: 10, Y: 0, Z: 0}}
	interior := &stubInterior{
		insideFn: func(r3.Vec) bool { return true },
		pathFn: func(start, goal r3.Vec) []r3.Vec {
			return append([]r3.Vec(nil), direct...)
		},
	}
	p := NewPathfinder(doorwayNodes(), interior, nil, DefaultConfig(), nil)

	route := p.FindRoute(direct[0], direct[2])
	if route.Status != StatusFound {
		t.Fatalf("status = %v, want found", route.Status)
	}
	// The collaborator's path is returned untouched: no gap filling, no
	// smoothing, no region graph.
	if diff := cmp.Diff(direct, route.Points); diff != "" {
		t.Fatalf("interior path altered (-want +got):\n%s", diff)
	}
	if route.Stats.NodesSelected != 0 || route.Stats.NodesExpanded != 0 {
		t.Fatalf("expected no exterior search, got stats %+v", route.Stats)
	}
	if interior.pathCalls != 1 {
		t.Fatalf("interior navigator called %d times, want 1", interior.pathCalls)
	}
}

func TestFindRouteBothInsideTooFarWithoutWorld(t *testing.T) {
	interior := &stubInterior{insideFn: func(r3.Vec) bool { return true }}
	p := NewPathfinder(doorwayNodes(), interior, nil, DefaultConfig(), nil)

	route := p.FindRoute(r3.Vec{}, r3.Vec{X: 100})
	if route.Status != StatusNoRoute {
		t.Fatalf("status = %v, want no_route", route.Status)
	}
	if interior.pathCalls != 0 {
		t.Fatalf("direct interior routing attempted across %d calls despite the distance cap", interior.pathCalls)
	}
}

func TestFindRouteRejectsNonFiniteInput(t *testing.T) {
	p := NewPathfinder(doorwayNodes(), nil, nil, DefaultConfig(), nil)

	for _, bad := range []r3.Vec{
		{X: math.NaN()},
		{Y: math.Inf(1)},
		{Z: math.Inf(-1)},
	} {
		route := p.FindRoute(bad, r3.Vec{X: 5})
		if route.Status != StatusNoRoute || len(route.Points) != 0 {
			t.Errorf("start %v: status %v, points %v", bad, route.Status, route.Points)
		}
		route = p.FindRoute(r3.Vec{X: 5}, bad)
		if route.Status != StatusNoRoute || len(route.Points) != 0 {
			t.Errorf("goal %v: status %v, points %v", bad, route.Status, route.Points)
		}
	}
}

func TestFindRouteIsDeterministic(t *testing.T) {
	start := r3.Vec{X: -4.5, Y: 0, Z: 0.5}
	goal := r3.Vec{X: 8.5, Y: 0, Z: 0.5}

	run := func() Route {
		m, interior := buildDoorwayWorld()
		p := NewPathfinder(doorwayNodes(), interior, m, DefaultConfig(), nil)
		return p.FindRoute(start, goal)
	}

	first := run()
	second := run()
	if first.Status != second.Status {
		t.Fatalf("statuses diverged: %v vs %v", first.Status, second.Status)
	}
	if diff := cmp.Diff(first.Points, second.Points); diff != "" {
		t.Fatalf("routes diverged (-first +second):\n%s", diff)
	}
}

func TestNewPathfinderSnapshotsNodes(t *testing.T) {
	nodes := []Node{{Pos: r3.Vec{X: 1}, Cost: 8}}
	p := NewPathfinder(nodes, nil, nil, DefaultConfig(), nil)

	nodes[0].Cost = 999
	if p.nodes[0].Cost != 8 {
		t.Fatalf("pathfinder shares the caller's slice: cost %v", p.nodes[0].Cost)
	}
}
