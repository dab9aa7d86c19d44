package agent

import (
	"errors"
	"math"

	"github.com/SprayArt/ardk-upm/common"
	"github.com/SprayArt/ardk-upm/gameboard"
	"github.com/SprayArt/ardk-upm/physics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrNoGameboardManager = errors.New("agent: a gameboard manager is required")

const (
	DefaultWalkingSpeed = 3.0
	DefaultJumpDistance = 1.0
	DefaultJumpPenalty  = 2.0

	// StayOnBoardTolerance is how far an idle agent may drift off the board
	// before it walks back.
	StayOnBoardTolerance = 0.2
	ArrivalDistance      = 0.01
	SurfaceEntryDelay    = 0.5
	JumpSpeed            = 2.0

	probeLift     = 1.0
	probeDistance = 100.0
)

// State is the agent's navigation state.
type State int

const (
	Paused State = iota
	Idle
	HasPath
)

func (s State) String() string {
	switch s {
	case Paused:
		return "paused"
	case Idle:
		return "idle"
	case HasPath:
		return "has_path"
	default:
		return "unknown"
	}
}

// Board is the gameboard surface an agent navigates. *gameboard.Manager and
// *gameboard.Gameboard both satisfy it.
type Board interface {
	CalculatePath(start, destination common.Vec3, cfg gameboard.AgentConfiguration) (bool, gameboard.Path)
	FindNearestFreePosition(p common.Vec3) (common.Vec3, bool)
	IsOnGameboard(p common.Vec3, tolerance float64) bool
	Area() float64
	Settings() gameboard.Settings
}

// Agent walks and jumps along paths planned on a gameboard. It is driven by
// Update once per frame and is not safe for concurrent use.
type Agent struct {
	id     uuid.UUID
	board  Board
	probe  physics.Prober
	log    *zap.Logger
	events *EventQueue

	walkingSpeed float64
	unitSpeed    bool
	config       gameboard.AgentConfiguration

	state       State
	path        gameboard.Path
	destination common.Vec3
	position    common.Vec3
	rotation    common.Quat

	move *moveTask
}

type Option func(*Agent)

func WithWalkingSpeed(speed float64) Option {
	return func(a *Agent) {
		if speed > 0 {
			a.walkingSpeed = speed
		}
	}
}

// WithUnitSpeed measures walking speed in world units per second, so a
// segment takes time in proportion to its length. By default every segment
// takes 1/walkingSpeed seconds.
func WithUnitSpeed() Option {
	return func(a *Agent) { a.unitSpeed = true }
}

func WithConfiguration(cfg gameboard.AgentConfiguration) Option {
	return func(a *Agent) { a.config = cfg }
}

// WithProbe sets the ground probe used to glue the agent onto the terrain.
func WithProbe(p physics.Prober) Option {
	return func(a *Agent) { a.probe = p }
}

func WithLogger(log *zap.Logger) Option {
	return func(a *Agent) {
		if log != nil {
			a.log = log
		}
	}
}

func WithPosition(p common.Vec3) Option {
	return func(a *Agent) { a.position = p }
}

// WithEvents shares an event queue between agents.
func WithEvents(q *EventQueue) Option {
	return func(a *Agent) {
		if q != nil {
			a.events = q
		}
	}
}

// New creates an idle agent on board.
func New(board Board, opts ...Option) (*Agent, error) {
	if board == nil {
		return nil, ErrNoGameboardManager
	}
	switch b := board.(type) {
	case *gameboard.Manager:
		if b == nil {
			return nil, ErrNoGameboardManager
		}
	case *gameboard.Gameboard:
		if b == nil {
			return nil, ErrNoGameboardManager
		}
	}

	a := &Agent{
		id:           uuid.New(),
		board:        board,
		log:          zap.NewNop(),
		events:       &EventQueue{},
		walkingSpeed: DefaultWalkingSpeed,
		config: gameboard.NewAgentConfiguration(
			DefaultJumpPenalty,
			DefaultJumpDistance,
			gameboard.InterSurfacePreferResults,
		),
		state:    Idle,
		path:     gameboard.InvalidPath(),
		rotation: common.Identity,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With(zap.Stringer("agent", a.id))
	return a, nil
}

func (a *Agent) ID() uuid.UUID { return a.id }

func (a *Agent) State() State { return a.state }

// SetState overrides the navigation state, typically to pause the agent.
// A paused agent keeps its movement and resumes it once set back to HasPath.
func (a *Agent) SetState(s State) {
	if a.state == s {
		return
	}
	a.log.Debug("state override", zap.Stringer("from", a.state), zap.Stringer("to", s))
	a.state = s
}

// Path is the most recently planned path.
func (a *Agent) Path() gameboard.Path { return a.path }

func (a *Agent) Destination() common.Vec3 { return a.destination }

func (a *Agent) Position() common.Vec3 { return a.position }

// SetPosition teleports the agent without touching its path.
func (a *Agent) SetPosition(p common.Vec3) { a.position = p }

func (a *Agent) Rotation() common.Quat { return a.rotation }

func (a *Agent) WalkingSpeed() float64 { return a.walkingSpeed }

func (a *Agent) SetWalkingSpeed(speed float64) {
	if speed > 0 {
		a.walkingSpeed = speed
	}
}

// UnitSpeed reports whether walking speed is in world units per second.
func (a *Agent) UnitSpeed() bool { return a.unitSpeed }

func (a *Agent) Configuration() gameboard.AgentConfiguration { return a.config }

// SetConfiguration applies to the next path request.
func (a *Agent) SetConfiguration(cfg gameboard.AgentConfiguration) { a.config = cfg }

func (a *Agent) Events() *EventQueue { return a.events }

// IsMoving reports whether a movement task is running.
func (a *Agent) IsMoving() bool { return a.move != nil }

// Update advances the agent by one frame of dt seconds.
func (a *Agent) Update(dt float64) {
	switch a.state {
	case Paused:
	case Idle:
		a.stayOnGameboard()
	case HasPath:
		a.stepMove(dt)
	}
}

// StopMoving drops the running movement task. The agent stays where it is
// and its state is left alone.
func (a *Agent) StopMoving() {
	if a.move == nil {
		return
	}
	a.move = nil
	a.log.Debug("movement stopped", zap.Stringer("position", a.position))
}

// SetDestination plans a path to destination and starts following it. When
// no path exists the agent goes idle.
func (a *Agent) SetDestination(destination common.Vec3) {
	a.StopMoving()
	a.destination = destination

	start, _ := a.board.FindNearestFreePosition(a.position)
	ok, path := a.board.CalculatePath(start, destination, a.config)
	a.path = path
	if !ok {
		a.state = Idle
		a.emit(EventPlanningFailed)
		a.log.Debug("no path to destination", zap.Stringer("destination", destination))
		return
	}

	a.state = HasPath
	a.move = newMoveTask(path.Waypoints(), a.position, a.rotation)
	a.emit(EventPathStarted)
	a.log.Debug("path started",
		zap.Stringer("destination", destination),
		zap.Stringer("status", path.Status()),
		zap.Int("waypoints", path.Len()))
}

// stayOnGameboard walks an idle agent back onto the board when it has
// drifted off.
func (a *Agent) stayOnGameboard() {
	if a.board.Area() == 0 {
		return
	}
	if a.onGameboard() {
		return
	}
	nearest, ok := a.board.FindNearestFreePosition(a.position)
	if !ok {
		return
	}

	a.destination = nearest
	size := a.board.Settings().TileSize
	a.path = gameboard.NewPath([]gameboard.Waypoint{
		gameboard.NewWaypoint(a.position, gameboard.Walk, gameboard.PositionToTile(a.position, size)),
		gameboard.NewWaypoint(nearest, gameboard.SurfaceEntry, gameboard.PositionToTile(nearest, size)),
	}, gameboard.PathComplete)
	a.move = newMoveTask(a.path.Waypoints(), a.position, a.rotation)
	a.state = HasPath
	a.emit(EventRecoveryStarted)
	a.log.Debug("returning to gameboard", zap.Stringer("target", nearest))
}

// onGameboard reports whether the agent is within tolerance of the board. An
// agent standing on probed terrain is judged by its footprint alone, since
// the board keeps a single averaged height per tile.
func (a *Agent) onGameboard() bool {
	if a.board.IsOnGameboard(a.position, StayOnBoardTolerance) {
		return true
	}
	if a.probe == nil {
		return false
	}
	hit, ground := a.probe.Probe(a.position.Add(common.Up.Scale(probeLift)), common.Down, probeDistance, a.board.Settings().LayerMask)
	if !hit || math.Abs(ground.Y-a.position.Y) > StayOnBoardTolerance {
		return false
	}
	nearest, ok := a.board.FindNearestFreePosition(a.position)
	return ok && common.HorizontalDistance(a.position, nearest) <= StayOnBoardTolerance
}

func (a *Agent) stepMove(dt float64) {
	if a.move == nil {
		return
	}
	if !a.move.step(a, dt) {
		return
	}
	a.move = nil
	a.state = Idle
	a.emit(EventPathCompleted)
	a.log.Debug("path completed", zap.Stringer("position", a.position))
}

// groundTarget lifts or lowers p onto the terrain under it. The board stores
// an average height per tile, so the probe is what keeps feet on the mesh.
func (a *Agent) groundTarget(p common.Vec3) common.Vec3 {
	if a.probe == nil {
		return p
	}
	hit, ground := a.probe.Probe(p.Add(common.Up.Scale(probeLift)), common.Down, probeDistance, a.board.Settings().LayerMask)
	if !hit {
		return p
	}
	return ground
}

func (a *Agent) emit(kind EventKind) {
	a.events.Push(Event{Agent: a.id, Kind: kind, Position: a.position})
}
