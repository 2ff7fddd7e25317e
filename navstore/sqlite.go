package navstore

import (
	"database/sql"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	_ "modernc.org/sqlite"

	"wayfarer/server/nav"
)

// LoadSQLite reads a baked dataset database. Rows are consumed in rowid
// order so the snapshot matches the exporter's write order.
func LoadSQLite(path string) ([]nav.Node, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open dataset db: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT x, y, z, cost FROM nav_nodes ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query nav_nodes: %w", err)
	}
	defer rows.Close()

	var nodes []nav.Node
	for rows.Next() {
		var x, y, z, cost float64
		if err := rows.Scan(&x, &y, &z, &cost); err != nil {
			return nil, fmt.Errorf("scan nav node: %w", err)
		}
		if cost < 0 {
			return nil, fmt.Errorf("node %d: negative cost %f", len(nodes), cost)
		}
		nodes = append(nodes, nav.Node{
			Pos:  r3.Vec{X: x, Y: y, Z: z},
			Cost: cost,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nav_nodes: %w", err)
	}
	return nodes, nil
}
