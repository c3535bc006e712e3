package tasklist

import "github.com/Joseda-hg/taskflow/internal/model"

// EventKind names the mutation that produced an Event.
type EventKind string

const (
	EventAdded   EventKind = "task.added"
	EventToggled EventKind = "task.toggled"
	EventDeleted EventKind = "task.deleted"
)

// Event describes one effective change. Task holds the state after the
// change, or the removed task for EventDeleted.
type Event struct {
	Kind EventKind
	Task model.Task
}

// Listener is called after every effective change. No-op calls do not
// produce events.
type Listener func(Event)
