package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"sort"
)

//go:embed *.json
var LevelsFS embed.FS

// Level is a gameboard authored as JSON. Tiles come from rectangular
// patches, single tiles and an optional height grid; terrain boxes feed the
// ground probe and default to one box per patch.
type Level struct {
	Name       string    `json:"name"`
	TileSize   float64   `json:"tile_size"`
	StepHeight *float64  `json:"step_height,omitempty"`
	LayerMask  uint      `json:"layer_mask,omitempty"`
	MaxSnap    float64   `json:"max_snap_distance,omitempty"`
	Patches    []Patch   `json:"patches,omitempty"`
	Tiles      []Tile    `json:"tiles,omitempty"`
	Grid       *Grid     `json:"grid,omitempty"`
	Terrain    []Terrain `json:"terrain,omitempty"`
	Spawns     []Spawn   `json:"spawns,omitempty"`
}

// Patch fills every tile from Min to Max inclusive.
type Patch struct {
	Min    [2]int  `json:"min"`
	Max    [2]int  `json:"max"`
	Height float64 `json:"height"`
	Layer  uint    `json:"layer,omitempty"`
}

type Tile struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Height float64 `json:"height"`
}

// Grid is a row-major height map starting at Origin. Null cells are holes.
type Grid struct {
	Origin [2]int       `json:"origin"`
	Rows   [][]*float64 `json:"rows"`
}

// Terrain is a flat collision box in world units.
type Terrain struct {
	MinX   float64 `json:"min_x"`
	MinZ   float64 `json:"min_z"`
	MaxX   float64 `json:"max_x"`
	MaxZ   float64 `json:"max_z"`
	Height float64 `json:"height"`
	Layer  uint    `json:"layer,omitempty"`
}

// Spawn places an agent prefab on the level.
type Spawn struct {
	Agent    string      `json:"agent"`
	Position *[3]float64 `json:"position,omitempty"`
}

func LoadLevelFromFS(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return parseLevel(data)
}

// LoadLevelFile reads a level from disk.
func LoadLevelFile(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return parseLevel(data)
}

// Load reads path from disk when it exists and falls back to the embedded
// level of that name.
func Load(path string) (*Level, error) {
	if _, err := os.Stat(path); err == nil {
		return LoadLevelFile(path)
	}
	return LoadLevelFromFS(path)
}

// List returns the embedded level names, sorted.
func List() []string {
	matches, _ := fs.Glob(LevelsFS, "*.json")
	sort.Strings(matches)
	return matches
}

func parseLevel(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if lvl.TileSize < 0 {
		return nil, fmt.Errorf("invalid tile size: %v", lvl.TileSize)
	}
	return &lvl, nil
}
