package world

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
)

// Box is an inclusive axis-aligned cell volume.
type Box struct {
	MinX int `json:"minX"`
	MinY int `json:"minY"`
	MinZ int `json:"minZ"`
	MaxX int `json:"maxX"`
	MaxY int `json:"maxY"`
	MaxZ int `json:"maxZ"`
}

func (b Box) Contains(x, y, z int) bool {
	return x >= b.MinX && x <= b.MaxX &&
		y >= b.MinY && y <= b.MaxY &&
		z >= b.MinZ && z <= b.MaxZ
}

// Map is a sparse voxel world: a set of solid cells plus the building
// volumes that define interior space. It satisfies the pathfinder's
// world-query contract; reads are lock-free, so build it fully before
// sharing it with queries.
type Map struct {
	solids    map[[3]int]struct{}
	buildings []Box
}

func NewMap() *Map {
	return &Map{solids: make(map[[3]int]struct{})}
}

func (m *Map) SetSolid(x, y, z int) {
	m.solids[[3]int{x, y, z}] = struct{}{}
}

func (m *Map) FillSolid(b Box) {
	for y := b.MinY; y <= b.MaxY; y++ {
		for z := b.MinZ; z <= b.MaxZ; z++ {
			for x := b.MinX; x <= b.MaxX; x++ {
				m.SetSolid(x, y, z)
			}
		}
	}
}

func (m *Map) AddBuilding(b Box) {
	m.buildings = append(m.buildings, b)
}

func (m *Map) Solid(x, y, z int) bool {
	_, ok := m.solids[[3]int{x, y, z}]
	return ok
}

func (m *Map) Passable(x, y, z int) bool {
	return !m.Solid(x, y, z)
}

func (m *Map) IsInsideBuilding(pos r3.Vec) bool {
	x := int(math.Floor(pos.X))
	y := int(math.Floor(pos.Y))
	z := int(math.Floor(pos.Z))
	for _, b := range m.buildings {
		if b.Contains(x, y, z) {
			return true
		}
	}
	return false
}

// Definition is the JSON description consumed by Load.
type Definition struct {
	Solids    []Box `json:"solids"`
	Buildings []Box `json:"buildings"`
}

// Load reads a world description from a JSON file.
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read world file: %w", err)
	}
	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("decode world file: %w", err)
	}
	m := NewMap()
	for _, b := range def.Solids {
		m.FillSolid(b)
	}
	for _, b := range def.Buildings {
		m.AddBuilding(b)
	}
	return m, nil
}
