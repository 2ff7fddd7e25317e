package world

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestMapSolidAndPassable(t *testing.T) {
	m := NewMap()
	m.SetSolid(1, 2, 3)

	if !m.Solid(1, 2, 3) {
		t.Fatal("cell should be solid after SetSolid")
	}
	if m.Passable(1, 2, 3) {
		t.Fatal("solid cell reported passable")
	}
	if m.Solid(0, 0, 0) {
		t.Fatal("untouched cell reported solid")
	}
	if !m.Passable(0, 0, 0) {
		t.Fatal("untouched cell reported impassable")
	}
}

func TestFillSolidCoversInclusiveBounds(t *testing.T) {
	m := NewMap()
	m.FillSolid(Box{MinX: 0, MinY: 0, MinZ: 0, MaxX: 2, MaxY: 1, MaxZ: 2})

	for _, cell := range [][3]int{{0, 0, 0}, {2, 1, 2}, {1, 0, 2}} {
		if !m.Solid(cell[0], cell[1], cell[2]) {
			t.Errorf("cell %v inside the box should be solid", cell)
		}
	}
	for _, cell := range [][3]int{{3, 0, 0}, {0, 2, 0}, {-1, 0, 0}} {
		if m.Solid(cell[0], cell[1], cell[2]) {
			t.Errorf("cell %v outside the box should not be solid", cell)
		}
	}
}

func TestIsInsideBuilding(t *testing.T) {
	m := NewMap()
	m.AddBuilding(Box{MinX: 0, MinY: 0, MinZ: 0, MaxX: 4, MaxY: 2, MaxZ: 4})

	cases := []struct {
		pos  r3.Vec
		want bool
	}{
		{r3.Vec{X: 0.5, Y: 0, Z: 0.5}, true},
		{r3.Vec{X: 4.9, Y: 2.5, Z: 4.9}, true},
		{r3.Vec{X: 5.1, Y: 0, Z: 0.5}, false},
		{r3.Vec{X: -0.1, Y: 0, Z: 0.5}, false},
		{r3.Vec{X: 0.5, Y: 3.1, Z: 0.5}, false},
	}
	for _, tc := range cases {
		if got := m.IsInsideBuilding(tc.pos); got != tc.want {
			t.Errorf("IsInsideBuilding(%v) = %v, want %v", tc.pos, got, tc.want)
		}
	}
}

func TestLoadWorldFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.json")
	data := `{
		"solids": [{"minX": 0, "minY": -1, "minZ": 0, "maxX": 5, "maxY": -1, "maxZ": 5}],
		"buildings": [{"minX": 1, "minY": 0, "minZ": 1, "maxX": 3, "maxY": 2, "maxZ": 3}]
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !m.Solid(5, -1, 5) {
		t.Fatal("expected ground slab to be solid")
	}
	if !m.IsInsideBuilding(r3.Vec{X: 2.5, Y: 0, Z: 2.5}) {
		t.Fatal("expected position inside the declared building")
	}
}

func TestLoadWorldFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
