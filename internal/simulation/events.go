package simulation

// EventKind identifies what an Event reports.
type EventKind int

const (
	// EventSelected is sent when the selection changes. Object is nil when
	// nothing is selected anymore.
	EventSelected EventKind = iota
	// EventOrientationChanged is sent for every robot whose heading changed,
	// after a tick or, while paused, on the next Update.
	EventOrientationChanged
	EventObjectAdded
	EventObjectRemoved
)

func (k EventKind) String() string {
	switch k {
	case EventSelected:
		return "selected"
	case EventOrientationChanged:
		return "orientation-changed"
	case EventObjectAdded:
		return "object-added"
	case EventObjectRemoved:
		return "object-removed"
	}
	return "unknown"
}

// Event is a notification published by the simulation to its listeners.
type Event struct {
	Kind   EventKind
	Object SimulationObject
}

// Listener receives events synchronously, on the goroutine that caused them.
type Listener func(Event)

// Subscribe registers a listener for all future events.
func (s *Simulation) Subscribe(l Listener) {
	if l == nil {
		return
	}
	s.listeners = append(s.listeners, l)
}

func (s *Simulation) publish(kind EventKind, obj SimulationObject) {
	ev := Event{Kind: kind, Object: obj}
	for _, l := range s.listeners {
		l(ev)
	}
}
