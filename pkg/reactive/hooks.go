package reactive

import "fmt"

// EventKind identifies what happened in a graph.
type EventKind uint8

const (
	EventSignalCreated EventKind = iota + 1
	EventObserverCreated
	EventSubscribed
	EventUnsubscribed
	EventSignalWritten
	EventRunStarted
	EventRunFinished
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventSignalCreated:
		return "signal_created"
	case EventObserverCreated:
		return "observer_created"
	case EventSubscribed:
		return "subscribed"
	case EventUnsubscribed:
		return "unsubscribed"
	case EventSignalWritten:
		return "signal_written"
	case EventRunStarted:
		return "run_started"
	case EventRunFinished:
		return "run_finished"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *EventKind) UnmarshalText(text []byte) error {
	for kind := EventSignalCreated; kind <= EventRunFinished; kind++ {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("reactive: unknown event kind %q", text)
}

// Event describes a single change in a graph. Only the fields relevant to
// Kind are set.
type Event struct {
	Kind EventKind `json:"kind"`

	// Graph is the ID of the graph that emitted the event.
	Graph uint64 `json:"graph"`

	// Signal is set for signal events and edge events.
	Signal SignalID `json:"signal"`

	// Observer is set for observer events and edge events.
	Observer ObserverID `json:"observer"`

	// Label is the label of the signal (signal events) or the observer
	// (observer and run events).
	Label string `json:"label,omitempty"`

	// Run is the 1-based execution number for run events.
	Run uint64 `json:"run,omitempty"`

	// Depth is the number of observer executions in progress, including
	// this one, for run events.
	Depth int `json:"depth,omitempty"`

	// Subscribers is the size of the notification snapshot for
	// EventSignalWritten.
	Subscribers int `json:"subscribers,omitempty"`

	// Panicked reports, for EventRunFinished, that the body panicked.
	Panicked bool `json:"panicked,omitempty"`
}

// Hook receives graph events. HandleEvent is called synchronously on the
// goroutine driving the graph, in the order the events happen, so
// implementations must not block and must not touch the graph.
//
// RunStarted and RunFinished are always paired, even when the body panics.
type Hook interface {
	HandleEvent(e Event)
}

// HookFunc adapts an ordinary function to the Hook interface.
type HookFunc func(e Event)

// HandleEvent calls f(e).
func (f HookFunc) HandleEvent(e Event) { f(e) }

// MultiHook fans events out to every non-nil hook, in order.
func MultiHook(hooks ...Hook) Hook {
	list := make(multiHook, 0, len(hooks))
	for _, h := range hooks {
		if h == nil {
			continue
		}
		if m, ok := h.(multiHook); ok {
			list = append(list, m...)
			continue
		}
		list = append(list, h)
	}
	switch len(list) {
	case 0:
		return nil
	case 1:
		return list[0]
	}
	return list
}

type multiHook []Hook

func (m multiHook) HandleEvent(e Event) {
	for _, h := range m {
		h.HandleEvent(e)
	}
}
