package agent

import (
	"github.com/SprayArt/ardk-upm/common"
	"github.com/google/uuid"
)

// EventKind identifies agent navigation events.
type EventKind string

const (
	EventPathStarted     EventKind = "path_started"
	EventPathCompleted   EventKind = "path_completed"
	EventPlanningFailed  EventKind = "planning_failed"
	EventRecoveryStarted EventKind = "recovery_started"
	EventJumpStarted     EventKind = "jump_started"
	EventJumpLanded      EventKind = "jump_landed"
)

// Event is emitted when an agent's navigation changes.
type Event struct {
	Agent    uuid.UUID
	Kind     EventKind
	Position common.Vec3
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
