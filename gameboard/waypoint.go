package gameboard

import "github.com/SprayArt/ardk-upm/common"

// MovementType tells an agent how to reach a waypoint.
type MovementType int

const (
	Walk MovementType = iota
	// SurfaceEntry marks a jump onto a different surface.
	SurfaceEntry
)

func (m MovementType) String() string {
	switch m {
	case Walk:
		return "walk"
	case SurfaceEntry:
		return "surface_entry"
	default:
		return "unknown"
	}
}

// Waypoint is one point along a path.
type Waypoint struct {
	worldPosition common.Vec3
	movementType  MovementType
	tile          Tile
}

func NewWaypoint(position common.Vec3, movementType MovementType, tile Tile) Waypoint {
	return Waypoint{worldPosition: position, movementType: movementType, tile: tile}
}

func (w Waypoint) WorldPosition() common.Vec3 { return w.worldPosition }
func (w Waypoint) Type() MovementType         { return w.movementType }
func (w Waypoint) Tile() Tile                 { return w.tile }
