package nav

import "gonum.org/v1/gonum/spatial/r3"

// Node is a precomputed world waypoint with a traversal-difficulty cost.
// Nodes are immutable; the Pathfinder copies the slice it is handed and
// never mutates it, so a dataset snapshot can be shared by any number of
// concurrent queries.
type Node struct {
	Pos  r3.Vec  `json:"pos"`
	Cost float64 `json:"cost"`
}

// InteriorNavigator resolves routes inside building interiors. It is an
// external collaborator; FindInteriorPath returns an empty slice when no
// interior route exists.
type InteriorNavigator interface {
	IsInsideBuilding(pos r3.Vec) bool
	FindInteriorPath(start, goal r3.Vec) []r3.Vec
}

// WorldQuery answers per-block passability and solidity questions. Exit
// discovery is its only consumer.
type WorldQuery interface {
	Passable(x, y, z int) bool
	Solid(x, y, z int) bool
}

// Status classifies the outcome of a routing query.
type Status int

const (
	// StatusFound means Points holds a complete route.
	StatusFound Status = iota
	// StatusNoRoute means no candidate nodes or no connected route existed.
	StatusNoRoute
	// StatusExhausted means every discovered transition candidate was tried
	// and none produced a full route.
	StatusExhausted
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNoRoute:
		return "no_route"
	case StatusExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Stats carries informational per-query counters. They are not part of
// the functional contract.
type Stats struct {
	NodesSelected int `json:"nodesSelected"`
	NodesExpanded int `json:"nodesExpanded"`
	ExitsTried    int `json:"exitsTried"`
}

// Route is the result of a single routing query.
type Route struct {
	Status Status   `json:"status"`
	Points []r3.Vec `json:"points"`
	Stats  Stats    `json:"stats"`
}
