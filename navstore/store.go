package navstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"wayfarer/server/nav"
)

// Load reads a nav-node dataset, dispatching on the file extension:
// .json for exporter JSON, .db/.sqlite/.sqlite3 for a baked database.
func Load(path string) ([]nav.Node, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(path)
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(path)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", filepath.Ext(path))
	}
}

// LoadJSON reads an exporter JSON dataset.
func LoadJSON(path string) ([]nav.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	var defs FileDefinitions
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	nodes := make([]nav.Node, 0, len(defs))
	for i, def := range defs {
		if def.Cost < 0 {
			return nil, fmt.Errorf("node %d: negative cost %f", i, def.Cost)
		}
		nodes = append(nodes, nav.Node{
			Pos:  r3.Vec{X: def.X, Y: def.Y, Z: def.Z},
			Cost: def.Cost,
		})
	}
	return nodes, nil
}
