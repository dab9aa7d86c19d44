package agent

import (
	"github.com/SprayArt/ardk-upm/common"
	"github.com/SprayArt/ardk-upm/gameboard"
)

// moveTask follows a list of waypoints one frame at a time. At most one jump
// runs inside it.
type moveTask struct {
	waypoints []gameboard.Waypoint
	index     int
	interval  float64
	startPos  common.Vec3
	startRot  common.Quat

	delaying bool
	delay    float64
	jump     *jumpTask
}

func newMoveTask(waypoints []gameboard.Waypoint, pos common.Vec3, rot common.Quat) *moveTask {
	return &moveTask{waypoints: waypoints, startPos: pos, startRot: rot}
}

// step runs one frame and reports whether every waypoint has been reached.
func (t *moveTask) step(a *Agent, dt float64) bool {
	if t.index >= len(t.waypoints) {
		return true
	}

	wp := t.waypoints[t.index]
	target := a.groundTarget(wp.WorldPosition())

	if wp.Type() == gameboard.SurfaceEntry {
		if !t.advanceJump(a, target, dt) {
			return false
		}
		t.startPos = a.position
		t.startRot = a.rotation
	} else {
		step := dt * a.walkingSpeed
		if a.unitSpeed {
			if seg := common.Distance(t.startPos, target); seg > common.Epsilon {
				step /= seg
			} else {
				step = 1
			}
		}
		t.interval += step
		a.position = common.LerpVec3(t.startPos, target, t.interval)
	}

	// face the way we move, ignoring up and down
	look := target.Sub(a.position).Flat().Normalized()
	if !look.IsZero() {
		a.rotation = common.QuatLerp(t.startRot, common.LookRotation(look), t.interval)
	}

	if common.Distance(a.position, target) < ArrivalDistance {
		t.startPos = a.position
		t.startRot = a.rotation
		t.interval = 0
		t.index++
	}
	return t.index >= len(t.waypoints)
}

// advanceJump waits out the take-off delay, then flies the jump arc. It
// reports true on the frame the agent lands.
func (t *moveTask) advanceJump(a *Agent, target common.Vec3, dt float64) bool {
	if t.jump == nil {
		if !t.delaying {
			t.delaying = true
			t.delay = SurfaceEntryDelay
			return false
		}
		t.delay -= dt
		if t.delay > 1e-9 {
			return false
		}
		t.jump = newJumpTask(a.position, target, a.rotation)
		a.emit(EventJumpStarted)
	}

	if !t.jump.step(a, dt) {
		return false
	}
	t.jump = nil
	t.delaying = false
	a.emit(EventJumpLanded)
	return true
}

// jumpTask moves along a parabola from one surface onto another.
type jumpTask struct {
	from     common.Vec3
	to       common.Vec3
	startRot common.Quat
	height   float64
	interval float64
}

func newJumpTask(from, to common.Vec3, rot common.Quat) *jumpTask {
	h := to.Y - from.Y
	if h < 0 {
		h = -h
	}
	if h < 0.1 {
		h = 0.1
	}
	return &jumpTask{from: from, to: to, startRot: rot, height: h}
}

func (j *jumpTask) step(a *Agent, dt float64) bool {
	j.interval += dt * JumpSpeed

	facing := common.ProjectOnPlane(j.to.Sub(j.from), common.Up).Normalized()
	if !facing.IsZero() {
		a.rotation = common.QuatLerp(j.startRot, common.LookRotation(facing), j.interval)
	}

	if j.interval >= 1 {
		a.position = j.to
		return true
	}

	p := common.LerpVec3(j.from, j.to, j.interval)
	p.Y = j.arc(j.interval)
	a.position = p
	return false
}

// arc returns the height of the jump at normalized time t.
func (j *jumpTask) arc(t float64) float64 {
	t = common.Clamp01(t)
	return -4*j.height*t*t + 4*j.height*t + common.Lerp(j.from.Y, j.to.Y, t)
}
