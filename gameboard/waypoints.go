package gameboard

import (
	"math"

	"github.com/SprayArt/ardk-upm/common"
)

// waypoints turns a tile route into the waypoints an agent follows. The start
// position is not emitted. Walk runs are shortened to the farthest waypoint
// still visible across the same surface; take-off and landing points stay.
func (idx *surfaceIndex) waypoints(startPt common.Vec3, tiles []Tile, goalPt common.Vec3) []Waypoint {
	raw := make([]Waypoint, 0, len(tiles)-1)
	for i := 1; i < len(tiles); i++ {
		t := tiles[i]
		pos := idx.center(t)
		if i == len(tiles)-1 {
			pos = goalPt
		}
		kind := Walk
		if idx.surface[tiles[i-1]] != idx.surface[t] {
			kind = SurfaceEntry
		}
		raw = append(raw, NewWaypoint(pos, kind, t))
	}

	out := make([]Waypoint, 0, len(raw))
	anchor := startPt
	anchorTile := tiles[0]
	for i := 0; i < len(raw); {
		w := raw[i]
		if w.movementType == SurfaceEntry {
			out = append(out, w)
			anchor, anchorTile = w.worldPosition, w.tile
			i++
			continue
		}

		j := i
		for k := i + 1; k < len(raw) && raw[k].movementType == Walk; k++ {
			if !idx.visible(anchor, anchorTile, raw[k].worldPosition, raw[k].tile) {
				break
			}
			j = k
		}
		out = append(out, raw[j])
		anchor, anchorTile = raw[j].worldPosition, raw[j].tile
		i = j + 1
	}
	return out
}

// visible reports whether a straight walk from a to b stays on the surface of
// aTile. Interior samples are taken every quarter tile.
func (idx *surfaceIndex) visible(a common.Vec3, aTile Tile, b common.Vec3, bTile Tile) bool {
	id, ok := idx.surface[aTile]
	if !ok || idx.surface[bTile] != id {
		return false
	}
	size := idx.settings.TileSize
	dist := common.HorizontalDistance(a, b)
	steps := int(math.Ceil(dist / (size * 0.25)))
	prev := aTile
	for i := 1; i < steps; i++ {
		p := common.LerpVec3(a, b, float64(i)/float64(steps))
		t := PositionToTile(p, size)
		if s, ok := idx.surface[t]; !ok || s != id {
			return false
		}
		if t != prev && !idx.connected(prev, t) && !idx.diagonalStep(prev, t) {
			return false
		}
		prev = t
	}
	return true
}

// diagonalStep accepts a corner crossing when both orthogonal detours are
// walkable.
func (idx *surfaceIndex) diagonalStep(a, b Tile) bool {
	if abs(a.X-b.X) != 1 || abs(a.Y-b.Y) != 1 {
		return false
	}
	c1 := Tile{X: b.X, Y: a.Y}
	c2 := Tile{X: a.X, Y: b.Y}
	return idx.connected(a, c1) && idx.connected(c1, b) && idx.connected(a, c2) && idx.connected(c2, b)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
