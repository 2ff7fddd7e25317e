package navstore

// NodeDefinition models one waypoint record in a JSON dataset file. It is
// shared with the schema generator so the exporter pipeline can validate
// datasets before they ship.
type NodeDefinition struct {
	X    float64 `json:"x" jsonschema:"description=World-space X coordinate of the waypoint"`
	Y    float64 `json:"y" jsonschema:"description=World-space elevation of the waypoint"`
	Z    float64 `json:"z" jsonschema:"description=World-space Z coordinate of the waypoint"`
	Cost float64 `json:"cost" jsonschema:"minimum=0,description=Traversal difficulty; values at or below the road threshold mark preferred surfaces"`
}

// FileDefinitions represents the contents of a nav-node dataset file: a
// flat array of waypoint records in export order. Export order is part of
// the contract; routing is deterministic for an unchanged file.
type FileDefinitions []NodeDefinition
