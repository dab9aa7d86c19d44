package gameboard

import (
	"math"

	"github.com/SprayArt/ardk-upm/common"
)

// FindNearestFreePosition returns the closest point lying on a walkable tile.
// A position already on a tile is returned unchanged. It reports false only
// when the board is empty.
func (g *Gameboard) FindNearestFreePosition(p common.Vec3) (common.Vec3, bool) {
	pt, _, ok := g.index().nearest(p)
	if !ok {
		return p, false
	}
	return pt, true
}

// IsOnGameboard reports whether p is within tolerance world units of a
// walkable tile.
func (g *Gameboard) IsOnGameboard(p common.Vec3, tolerance float64) bool {
	pt, _, ok := g.index().nearest(p)
	if !ok {
		return false
	}
	return common.Distance(p, pt) <= tolerance
}

// nearest scans every tile's top square. Ties keep the first tile in row
// order, which keeps results deterministic.
func (idx *surfaceIndex) nearest(p common.Vec3) (common.Vec3, Tile, bool) {
	if len(idx.tiles) == 0 {
		return p, Tile{}, false
	}

	// exact hit first so on-board positions never drift
	home := PositionToTile(p, idx.settings.TileSize)
	if h, ok := idx.heights[home]; ok && p.Y == h {
		return p, home, true
	}

	best := math.Inf(1)
	var bestPt common.Vec3
	var bestTile Tile
	for _, t := range idx.tiles {
		q := idx.closestOnTile(t, p)
		d := common.Distance(p, q)
		if d < best {
			best = d
			bestPt = q
			bestTile = t
		}
	}
	return bestPt, bestTile, true
}

// closestOnTile clamps p onto t's top square.
func (idx *surfaceIndex) closestOnTile(t Tile, p common.Vec3) common.Vec3 {
	size := idx.settings.TileSize
	minX := float64(t.X) * size
	minZ := float64(t.Y) * size
	return common.Vec3{
		X: common.Clamp(p.X, minX, minX+size),
		Y: idx.heights[t],
		Z: common.Clamp(p.Z, minZ, minZ+size),
	}
}

func (idx *surfaceIndex) center(t Tile) common.Vec3 {
	return TileCenter(t, idx.settings.TileSize, idx.heights[t])
}
