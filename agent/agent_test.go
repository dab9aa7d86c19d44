package agent

import (
	"math"
	"testing"

	"github.com/SprayArt/ardk-upm/common"
	"github.com/SprayArt/ardk-upm/gameboard"
	"github.com/SprayArt/ardk-upm/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 1.0 / 60.0

func newBoard(patches ...[2]gameboard.Tile) *gameboard.Gameboard {
	g := gameboard.New(gameboard.Settings{TileSize: 1, StepHeight: 0.1})
	for _, p := range patches {
		g.AddPatch(p[0], p[1], 0)
	}
	return g
}

func patch(x0, y0, x1, y1 int) [2]gameboard.Tile {
	return [2]gameboard.Tile{{X: x0, Y: y0}, {X: x1, Y: y1}}
}

func newAgent(t *testing.T, board Board, opts ...Option) *Agent {
	t.Helper()
	a, err := New(board, opts...)
	require.NoError(t, err)
	return a
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

func assertVec(t *testing.T, want, got common.Vec3, delta float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, "x")
	assert.InDelta(t, want.Y, got.Y, delta, "y")
	assert.InDelta(t, want.Z, got.Z, delta, "z")
}

func TestNewRequiresBoard(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNoGameboardManager)

	var m *gameboard.Manager
	_, err = New(m)
	assert.ErrorIs(t, err, ErrNoGameboardManager)

	var g *gameboard.Gameboard
	_, err = New(g)
	assert.ErrorIs(t, err, ErrNoGameboardManager)

	a, err := New(gameboard.NewManager(newBoard(patch(0, 0, 1, 1)), nil))
	require.NoError(t, err)
	assert.Equal(t, Idle, a.State())
	assert.Equal(t, gameboard.PathInvalid, a.Path().Status())
	assert.Equal(t, DefaultWalkingSpeed, a.WalkingSpeed())
}

func TestWalkReachesDestinationInOneSecond(t *testing.T) {
	board := newBoard(patch(-2, -2, 2, 5))
	a := newAgent(t, board, WithWalkingSpeed(3))

	a.SetDestination(common.V3(0, 0, 3))
	require.Equal(t, HasPath, a.State())
	require.Equal(t, gameboard.PathComplete, a.Path().Status())

	// every segment takes 1/walkingSpeed seconds
	for i := 0; i < 10; i++ {
		a.Update(frame)
	}
	require.Equal(t, HasPath, a.State())
	assert.InDelta(t, 1.5, a.Position().Z, 1e-6)

	for i := 10; i < 60; i++ {
		a.Update(frame)
	}
	assertVec(t, common.V3(0, 0, 3), a.Position(), 1e-6)
	assert.Equal(t, Idle, a.State())
	assert.False(t, a.IsMoving())
	assert.InDelta(t, 0, a.Rotation().Yaw(), 1e-9, "facing +Z")
	assert.Equal(t, []EventKind{EventPathStarted, EventPathCompleted}, kinds(a.Events().Drain()))
}

func TestUnitSpeedScalesWithSegmentLength(t *testing.T) {
	cases := []struct {
		name      string
		opts      []Option
		wantTicks int
	}{
		{"per_segment", []Option{WithWalkingSpeed(3)}, 20},
		{"units_per_second", []Option{WithWalkingSpeed(3), WithUnitSpeed()}, 180},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			board := newBoard(patch(0, 0, 0, 9))
			opts := append([]Option{WithPosition(common.V3(0.5, 0, 0.5))}, c.opts...)
			a := newAgent(t, board, opts...)

			a.SetDestination(common.V3(0.5, 0, 9.5))
			ticks := 0
			for ticks < 400 && a.State() == HasPath {
				a.Update(frame)
				ticks++
			}
			assert.Equal(t, Idle, a.State())
			assert.InDelta(t, c.wantTicks, ticks, 1)
			assertVec(t, common.V3(0.5, 0, 9.5), a.Position(), ArrivalDistance)
		})
	}
}

func TestDestinationAtCurrentPosition(t *testing.T) {
	board := newBoard(patch(0, 0, 3, 3))
	start := common.V3(1.5, 0, 1.5)
	a := newAgent(t, board, WithPosition(start))

	a.SetDestination(start)
	assert.Equal(t, gameboard.PathComplete, a.Path().Status())
	assert.LessOrEqual(t, a.Path().Len(), 1)

	a.Update(frame)
	assert.Equal(t, Idle, a.State())
	assert.Equal(t, start, a.Position())
	assert.Equal(t, common.Identity, a.Rotation())
}

func TestSetDestinationCancelsRunningTask(t *testing.T) {
	board := newBoard(patch(0, 0, 9, 9))
	a := newAgent(t, board, WithPosition(common.V3(0.5, 0, 0.5)))

	a.SetDestination(common.V3(9.5, 0, 0.5))
	for i := 0; i < 5; i++ {
		a.Update(frame)
	}
	require.True(t, a.IsMoving())
	moved := a.Position()
	require.Greater(t, moved.X, 0.5)

	// unreachable: the board is empty after clearing, so planning fails
	board.Clear()
	a.SetDestination(common.V3(0.5, 0, 9.5))
	assert.Equal(t, Idle, a.State())
	assert.False(t, a.IsMoving())
	assert.Equal(t, gameboard.PathInvalid, a.Path().Status())
	for i := 0; i < 10; i++ {
		a.Update(frame)
	}
	assert.Equal(t, moved, a.Position(), "cancelled task must not keep moving the agent")
	assert.Contains(t, kinds(a.Events().Drain()), EventPlanningFailed)
}

func TestSetDestinationReplacesPath(t *testing.T) {
	board := newBoard(patch(0, 0, 9, 9))
	a := newAgent(t, board, WithPosition(common.V3(0.5, 0, 0.5)))

	a.SetDestination(common.V3(9.5, 0, 0.5))
	first := a.Path()
	a.Update(frame)
	before := a.Position()

	a.SetDestination(before.Add(common.V3(0, 0, 4)))
	a.Update(frame)

	assert.InDelta(t, before.X, a.Position().X, 0.01, "new task walks toward the new destination only")
	assert.Greater(t, a.Position().Z, before.Z)
	assert.Equal(t, common.V3(9.5, 0, 0.5), first.At(first.Len()-1).WorldPosition(), "old path is untouched")
}

func TestStopMovingKeepsState(t *testing.T) {
	board := newBoard(patch(0, 0, 9, 0))
	a := newAgent(t, board, WithPosition(common.V3(0.5, 0, 0.5)))

	a.SetDestination(common.V3(9.5, 0, 0.5))
	a.Update(frame)
	a.StopMoving()
	stopped := a.Position()

	for i := 0; i < 10; i++ {
		a.Update(frame)
	}
	assert.Equal(t, HasPath, a.State())
	assert.Equal(t, stopped, a.Position())
	assert.False(t, a.IsMoving())
}

func TestPausedAgentHoldsPosition(t *testing.T) {
	board := newBoard(patch(0, 0, 9, 0))
	a := newAgent(t, board, WithPosition(common.V3(0.5, 0, 0.5)))

	a.SetDestination(common.V3(9.5, 0, 0.5))
	a.Update(frame)
	a.SetState(Paused)
	held := a.Position()
	for i := 0; i < 10; i++ {
		a.Update(frame)
	}
	assert.Equal(t, held, a.Position())

	a.SetState(HasPath)
	a.Update(frame)
	assert.Greater(t, a.Position().X, held.X)
}

func TestIdleRecoveryReturnsToBoard(t *testing.T) {
	board := newBoard(patch(0, 0, 2, 2))
	off := common.V3(-1, 0, 1.5)
	a := newAgent(t, board, WithPosition(off))

	a.Update(0.1)
	require.Equal(t, HasPath, a.State())
	path := a.Path()
	require.Equal(t, 2, path.Len())
	assert.Equal(t, off, path.At(0).WorldPosition())
	assert.Equal(t, gameboard.Walk, path.At(0).Type())
	assert.Equal(t, common.V3(0, 0, 1.5), path.At(1).WorldPosition())
	assert.Equal(t, gameboard.SurfaceEntry, path.At(1).Type())

	peak := math.Inf(-1)
	for i := 0; i < 40 && a.State() == HasPath; i++ {
		a.Update(0.1)
		peak = math.Max(peak, a.Position().Y)
	}
	assert.Equal(t, Idle, a.State())
	assertVec(t, common.V3(0, 0, 1.5), a.Position(), 1e-9)
	assert.Greater(t, peak, 0.05, "agent arcs over the gap")
	assert.True(t, board.IsOnGameboard(a.Position(), StayOnBoardTolerance))
	assert.Equal(t, []EventKind{
		EventRecoveryStarted, EventJumpStarted, EventJumpLanded, EventPathCompleted,
	}, kinds(a.Events().Drain()))

	// back on the board: idle ticks do nothing
	a.Update(0.1)
	assert.Equal(t, Idle, a.State())
}

func TestSurfaceEntryWaitsBeforeJumping(t *testing.T) {
	board := newBoard(patch(0, 0, 2, 2))
	a := newAgent(t, board, WithPosition(common.V3(-1, 0, 1.5)))

	a.Update(0.1) // plan recovery
	a.Update(0.1) // reach the first waypoint, which is where we stand
	a.Update(0.1) // take-off delay begins
	for i := 0; i < 4; i++ {
		a.Update(0.1)
		assert.Equal(t, common.V3(-1, 0, 1.5), a.Position(), "still waiting at tick %d", i)
	}
	a.Update(0.1)
	assert.NotEqual(t, common.V3(-1, 0, 1.5), a.Position(), "jump starts after half a second")
}

func TestNoRecoveryWithoutBoard(t *testing.T) {
	a := newAgent(t, newBoard(), WithPosition(common.V3(5, 5, 5)))
	for i := 0; i < 10; i++ {
		a.Update(frame)
	}
	assert.Equal(t, Idle, a.State())
	assert.False(t, a.IsMoving())
	assert.Equal(t, gameboard.PathInvalid, a.Path().Status())
	assert.Zero(t, a.Events().Len())
}

func TestGroundProbeAdjustsHeight(t *testing.T) {
	cases := []struct {
		name  string
		probe physics.Prober
		wantY float64
	}{
		{"no_probe", nil, 0},
		{"probe_hit", physics.ProbeFunc(func(origin, _ common.Vec3, _ float64, _ uint) (bool, common.Vec3) {
			return true, common.V3(origin.X, 0.25, origin.Z)
		}), 0.25},
		{"probe_miss", physics.ProbeFunc(func(common.Vec3, common.Vec3, float64, uint) (bool, common.Vec3) {
			return false, common.Zero
		}), 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			board := newBoard(patch(0, 0, 4, 0))
			a := newAgent(t, board, WithPosition(common.V3(0.5, 0, 0.5)), WithProbe(c.probe))
			a.SetDestination(common.V3(3.5, 0, 0.5))
			for i := 0; i < 120 && a.State() == HasPath; i++ {
				a.Update(frame)
			}
			assert.Equal(t, Idle, a.State())
			assertVec(t, common.V3(3.5, c.wantY, 0.5), a.Position(), ArrivalDistance)

			// standing on the terrain counts as on the board
			a.Events().Drain()
			for i := 0; i < 600; i++ {
				a.Update(frame)
			}
			assert.Equal(t, Idle, a.State())
			assert.NotContains(t, kinds(a.Events().Drain()), EventRecoveryStarted)
		})
	}
}

func TestRecoveryOnRaisedTerrain(t *testing.T) {
	raised := physics.ProbeFunc(func(origin, _ common.Vec3, _ float64, _ uint) (bool, common.Vec3) {
		return true, common.V3(origin.X, 0.25, origin.Z)
	})
	board := newBoard(patch(0, 0, 2, 2))

	a := newAgent(t, board, WithPosition(common.V3(1.5, 0.25, 1.5)), WithProbe(raised))
	a.Update(frame)
	assert.Equal(t, Idle, a.State(), "over a tile on terrain")

	off := newAgent(t, board, WithPosition(common.V3(-1, 0.25, 1.5)), WithProbe(raised))
	off.Update(frame)
	assert.Equal(t, HasPath, off.State(), "beside the board")
	assert.Equal(t, []EventKind{EventRecoveryStarted}, kinds(off.Events().Drain()))
}

func TestJumpBetweenPatches(t *testing.T) {
	board := newBoard(patch(0, 0, 2, 2), patch(8, 0, 10, 2))
	ground := physics.NewGround()
	ground.AddBox(0, 0, 3, 3, 0, 1)
	ground.AddBox(8, 0, 11, 3, 0, 1)

	cfg := gameboard.NewAgentConfiguration(2, 5, gameboard.InterSurfacePreferResults)
	a := newAgent(t, board, WithPosition(common.V3(0.5, 0, 1.5)), WithConfiguration(cfg), WithProbe(ground))

	a.SetDestination(common.V3(10.5, 0, 1.5))
	require.Equal(t, HasPath, a.State())
	require.Equal(t, 1, a.Path().Jumps())

	airborne := false
	for i := 0; i < 600 && a.State() == HasPath; i++ {
		a.Update(frame)
		p := a.Position()
		if p.Y > 0.01 {
			airborne = true
		}
		r := a.Rotation()
		require.False(t, math.IsNaN(r.X+r.Y+r.Z+r.W), "rotation went NaN at tick %d", i)
	}
	assert.True(t, airborne)
	assert.Equal(t, Idle, a.State())
	assertVec(t, common.V3(10.5, 0, 1.5), a.Position(), ArrivalDistance)
	assert.InDelta(t, math.Pi/2, a.Rotation().Yaw(), 1e-6, "facing +X after the jump")
}

func TestJumpTooFarFails(t *testing.T) {
	board := newBoard(patch(0, 0, 2, 2), patch(8, 0, 10, 2))
	a := newAgent(t, board, WithPosition(common.V3(0.5, 0, 1.5)))

	a.SetDestination(common.V3(10.5, 0, 1.5))
	assert.Equal(t, Idle, a.State())
	assert.Equal(t, gameboard.PathInvalid, a.Path().Status())
	assert.Equal(t, common.V3(10.5, 0, 1.5), a.Destination())
}

func TestJumpArc(t *testing.T) {
	j := newJumpTask(common.V3(0, 0, 0), common.V3(2, 1, 0), common.Identity)
	assert.InDelta(t, 1.0, j.height, 1e-9)
	assert.InDelta(t, 0, j.arc(0), 1e-9)
	assert.InDelta(t, 1.5, j.arc(0.5), 1e-9)
	assert.InDelta(t, 1, j.arc(1), 1e-9)

	flat := newJumpTask(common.Zero, common.V3(1, 0, 0), common.Identity)
	assert.InDelta(t, 0.1, flat.height, 1e-9, "flat jumps still arc")
}
