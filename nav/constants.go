package nav

// Config holds the routing tunables. Zero or negative fields are replaced
// with the matching DefaultConfig value when the Pathfinder is built.
type Config struct {
	// SearchRadius is the minimum node-selection radius around the
	// start/goal midpoint; the effective radius grows with the query span.
	SearchRadius float64
	// ConnectionRange bounds the 3D distance between connected nodes and
	// sets the spatial grid cell size.
	ConnectionRange float64
	// RoadCost is the cost at or below which a node counts as road.
	RoadCost float64
	// CheapNodeThreshold marks the cost above which expansion is scaled by
	// ExpensiveNodeMultiplier.
	CheapNodeThreshold      float64
	ExpensiveNodeMultiplier float64
	// VerticalDiffThreshold is the per-step elevation change tolerated
	// before VerticalPenalty applies to the excess.
	VerticalDiffThreshold float64
	VerticalPenalty       float64
	// MaxInteriorDistance bounds direct interior routing when both
	// endpoints are inside a building.
	MaxInteriorDistance float64
	// NodeSpacing is the horizontal spacing target for gap filling.
	NodeSpacing float64
	// MaxVerticalStep caps the elevation change between consecutive
	// waypoints of a finished route.
	MaxVerticalStep float64
	// ExitSearchRange is the largest ring radius, in blocks, examined when
	// discovering building exits and entrances.
	ExitSearchRange int
}

const (
	defaultSearchRadius            = 100.0
	defaultConnectionRange         = 10.0
	defaultRoadCost                = 10.0
	defaultCheapNodeThreshold      = 25.0
	defaultExpensiveNodeMultiplier = 3.0
	defaultVerticalDiffThreshold   = 2.0
	defaultVerticalPenalty         = 15.0
	defaultMaxInteriorDistance     = 50.0
	defaultNodeSpacing             = 3.0
	defaultMaxVerticalStep         = 1.25
	defaultExitSearchRange         = 12

	// offRoadPenalty multiplies the expansion cost of an edge that leaves
	// a road node for a non-road node.
	offRoadPenalty = 1000.0
	// spanRadiusFactor widens the selection radius for long queries.
	spanRadiusFactor = 0.75
	// nearestRoadBias lets a farther road node win nearest-node selection
	// over a closer expensive node.
	nearestRoadBias = 0.25
	// exitVerticalRange is the +-Y offset searched around the reference
	// point during exit discovery.
	exitVerticalRange = 2
	// exitClearanceRadius is the half-extent of the clearance neighborhood.
	exitClearanceRadius = 2
	// exitApproachOffset is how many cells past the boundary the approach
	// point is probed.
	exitApproachOffset = 2
	// maxTransitionCandidates caps how many ranked exits are attempted.
	maxTransitionCandidates = 3
)

// DefaultConfig returns the production tunables.
func DefaultConfig() Config {
	return Config{
		SearchRadius:            defaultSearchRadius,
		ConnectionRange:         defaultConnectionRange,
		RoadCost:                defaultRoadCost,
		CheapNodeThreshold:      defaultCheapNodeThreshold,
		ExpensiveNodeMultiplier: defaultExpensiveNodeMultiplier,
		VerticalDiffThreshold:   defaultVerticalDiffThreshold,
		VerticalPenalty:         defaultVerticalPenalty,
		MaxInteriorDistance:     defaultMaxInteriorDistance,
		NodeSpacing:             defaultNodeSpacing,
		MaxVerticalStep:         defaultMaxVerticalStep,
		ExitSearchRange:         defaultExitSearchRange,
	}
}

func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.SearchRadius <= 0 {
		c.SearchRadius = def.SearchRadius
	}
	if c.ConnectionRange <= 0 {
		c.ConnectionRange = def.ConnectionRange
	}
	if c.RoadCost <= 0 {
		c.RoadCost = def.RoadCost
	}
	if c.CheapNodeThreshold <= 0 {
		c.CheapNodeThreshold = def.CheapNodeThreshold
	}
	if c.ExpensiveNodeMultiplier <= 0 {
		c.ExpensiveNodeMultiplier = def.ExpensiveNodeMultiplier
	}
	if c.VerticalDiffThreshold <= 0 {
		c.VerticalDiffThreshold = def.VerticalDiffThreshold
	}
	if c.VerticalPenalty <= 0 {
		c.VerticalPenalty = def.VerticalPenalty
	}
	if c.MaxInteriorDistance <= 0 {
		c.MaxInteriorDistance = def.MaxInteriorDistance
	}
	if c.NodeSpacing <= 0 {
		c.NodeSpacing = def.NodeSpacing
	}
	if c.MaxVerticalStep <= 0 {
		c.MaxVerticalStep = def.MaxVerticalStep
	}
	if c.ExitSearchRange <= 0 {
		c.ExitSearchRange = def.ExitSearchRange
	}
	return c
}

func (c Config) isRoad(cost float64) bool {
	return cost <= c.RoadCost
}
