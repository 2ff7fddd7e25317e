package navigation

import (
	"context"

	"wayfarer/server/logging"
)

const (
	// EventRouteResolved is emitted once per routing query with the outcome
	// and search counters.
	EventRouteResolved logging.EventType = "navigation.route_resolved"
	// EventDatasetLoaded is emitted when a nav-node dataset snapshot is
	// loaded into the service.
	EventDatasetLoaded logging.EventType = "navigation.dataset_loaded"
)

// RouteResolvedPayload captures the outcome of one routing query.
type RouteResolvedPayload struct {
	Status         string `json:"status"`
	Waypoints      int    `json:"waypoints"`
	NodesSelected  int    `json:"nodesSelected"`
	NodesExpanded  int    `json:"nodesExpanded"`
	ExitsTried     int    `json:"exitsTried"`
	DurationMillis int64  `json:"durationMillis"`
}

// RouteResolved publishes the per-query outcome event. Failed queries are
// warnings so operators can spot unroutable regions; successes stay at
// info.
func RouteResolved(ctx context.Context, pub logging.Publisher, payload RouteResolvedPayload) {
	if pub == nil {
		return
	}
	severity := logging.SeverityInfo
	if payload.Status != "found" {
		severity = logging.SeverityWarn
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventRouteResolved,
		Severity: severity,
		Category: logging.CategoryNavigation,
		Payload:  payload,
	})
}

// DatasetLoadedPayload describes a loaded nav-node dataset.
type DatasetLoadedPayload struct {
	Path  string `json:"path"`
	Nodes int    `json:"nodes"`
}

// DatasetLoaded publishes a dataset ingestion event.
func DatasetLoaded(ctx context.Context, pub logging.Publisher, payload DatasetLoadedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDatasetLoaded,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryDataset,
		Payload:  payload,
	})
}
