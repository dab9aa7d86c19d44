package gameboard

import (
	"math"

	"github.com/SprayArt/ardk-upm/common"
)

const (
	DefaultTileSize   = 0.15
	DefaultStepHeight = 0.1
	// AllLayers matches every ground layer.
	AllLayers = ^uint(0)
)

// Tile addresses one grid cell of the board in the XZ plane.
type Tile struct {
	X int
	Y int
}

// Settings describe how world space maps onto the tile grid.
type Settings struct {
	TileSize float64
	// StepHeight is the largest height difference between adjacent tiles
	// that still counts as one continuous surface.
	StepHeight float64
	// LayerMask scopes the ground probe.
	LayerMask uint
	// MaxSnapDistance bounds how far a destination may lie from the nearest
	// walkable point. Zero means no limit.
	MaxSnapDistance float64
}

func DefaultSettings() Settings {
	return Settings{
		TileSize:   DefaultTileSize,
		StepHeight: DefaultStepHeight,
		LayerMask:  AllLayers,
	}
}

func (s Settings) withDefaults() Settings {
	if s.TileSize <= 0 {
		s.TileSize = DefaultTileSize
	}
	if s.StepHeight < 0 {
		s.StepHeight = DefaultStepHeight
	}
	if s.LayerMask == 0 {
		s.LayerMask = AllLayers
	}
	if s.MaxSnapDistance < 0 {
		s.MaxSnapDistance = 0
	}
	return s
}

// PositionToTile returns the tile whose footprint contains p.
func PositionToTile(p common.Vec3, tileSize float64) Tile {
	return Tile{
		X: int(math.Floor(p.X / tileSize)),
		Y: int(math.Floor(p.Z / tileSize)),
	}
}

// TileCenter returns the centre of t's top face at the given height.
func TileCenter(t Tile, tileSize, height float64) common.Vec3 {
	half := tileSize * 0.5
	return common.Vec3{
		X: float64(t.X)*tileSize + half,
		Y: height,
		Z: float64(t.Y)*tileSize + half,
	}
}

// tileGap is the horizontal edge-to-edge distance between two tile squares.
// Touching tiles have a gap of zero.
func tileGap(a, b Tile, tileSize float64) float64 {
	gx := math.Max(0, math.Abs(float64(a.X-b.X))-1) * tileSize
	gy := math.Max(0, math.Abs(float64(a.Y-b.Y))-1) * tileSize
	return math.Hypot(gx, gy)
}

func tileLess(a, b Tile) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}
