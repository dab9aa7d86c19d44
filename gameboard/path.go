package gameboard

import "github.com/SprayArt/ardk-upm/common"

// PathStatus reports how far a path gets toward its destination.
type PathStatus int

const (
	PathInvalid PathStatus = iota
	PathComplete
	// PathPartial ends as close to the destination as the agent can get.
	PathPartial
)

func (s PathStatus) String() string {
	switch s {
	case PathComplete:
		return "complete"
	case PathPartial:
		return "partial"
	default:
		return "invalid"
	}
}

// Path is an immutable sequence of waypoints. A new destination always
// produces a new Path.
type Path struct {
	waypoints []Waypoint
	status    PathStatus
}

// NewPath copies waypoints so later edits by the caller cannot leak in.
func NewPath(waypoints []Waypoint, status PathStatus) Path {
	if status == PathInvalid {
		return InvalidPath()
	}
	return Path{
		waypoints: append([]Waypoint(nil), waypoints...),
		status:    status,
	}
}

func InvalidPath() Path {
	return Path{status: PathInvalid}
}

func (p Path) Status() PathStatus { return p.status }

func (p Path) Len() int { return len(p.waypoints) }

// Waypoints returns a copy of the path's waypoints.
func (p Path) Waypoints() []Waypoint {
	return append([]Waypoint(nil), p.waypoints...)
}

func (p Path) At(i int) Waypoint { return p.waypoints[i] }

// Jumps counts SurfaceEntry waypoints.
func (p Path) Jumps() int {
	n := 0
	for _, w := range p.waypoints {
		if w.movementType == SurfaceEntry {
			n++
		}
	}
	return n
}

type waypointDoc struct {
	Position common.Vec3 `yaml:"position"`
	Type     string      `yaml:"type"`
	Tile     [2]int      `yaml:"tile,flow"`
}

type pathDoc struct {
	Status    string        `yaml:"status"`
	Jumps     int           `yaml:"jumps"`
	Waypoints []waypointDoc `yaml:"waypoints"`
}

// MarshalYAML renders the path for logs, the CLI and the clipboard.
func (p Path) MarshalYAML() (any, error) {
	doc := pathDoc{
		Status:    p.status.String(),
		Jumps:     p.Jumps(),
		Waypoints: make([]waypointDoc, 0, len(p.waypoints)),
	}
	for _, w := range p.waypoints {
		doc.Waypoints = append(doc.Waypoints, waypointDoc{
			Position: w.worldPosition,
			Type:     w.movementType.String(),
			Tile:     [2]int{w.tile.X, w.tile.Y},
		})
	}
	return doc, nil
}
