package reactive

import "slices"

// SignalInfo describes a signal in a Snapshot.
type SignalInfo struct {
	ID          SignalID     `json:"id"`
	Label       string       `json:"label"`
	Writes      uint64       `json:"writes"`
	Subscribers []ObserverID `json:"subscribers"`
}

// ObserverInfo describes an observer in a Snapshot.
type ObserverInfo struct {
	ID           ObserverID    `json:"id"`
	Label        string        `json:"label"`
	State        ObserverState `json:"state"`
	Runs         uint64        `json:"runs"`
	Dependencies []SignalID    `json:"dependencies"`
}

// Snapshot is a copy of a graph's nodes and edges. Edge lists are sorted.
type Snapshot struct {
	Graph     uint64         `json:"graph"`
	Signals   []SignalInfo   `json:"signals"`
	Observers []ObserverInfo `json:"observers"`
}

// Snapshot copies the current state of the graph.
func (g *Graph) Snapshot() Snapshot {
	snap := Snapshot{
		Graph:     g.id,
		Signals:   make([]SignalInfo, len(g.signals)),
		Observers: make([]ObserverInfo, len(g.observers)),
	}
	for i, s := range g.signals {
		snap.Signals[i] = SignalInfo{
			ID:          SignalID(i),
			Label:       s.label,
			Writes:      s.writes,
			Subscribers: sortedKeys(s.subs),
		}
	}
	for i, o := range g.observers {
		snap.Observers[i] = ObserverInfo{
			ID:           ObserverID(i),
			Label:        o.label,
			State:        o.state,
			Runs:         o.runs,
			Dependencies: sortedKeys(o.deps),
		}
	}
	return snap
}

// Subscribers returns the observers currently subscribed to sid, sorted.
func (g *Graph) Subscribers(sid SignalID) []ObserverID {
	return sortedKeys(g.signals[sid].subs)
}

// Dependencies returns the signals observer id read during its most recent
// run, sorted.
func (g *Graph) Dependencies(id ObserverID) []SignalID {
	return sortedKeys(g.observers[id].deps)
}

// Runs returns how many times observer id has executed.
func (g *Graph) Runs(id ObserverID) uint64 {
	return g.observers[id].runs
}

// State returns the current phase of observer id.
func (g *Graph) State(id ObserverID) ObserverState {
	return g.observers[id].state
}

// Len returns the number of signals and observers in the graph.
func (g *Graph) Len() (signals, observers int) {
	return len(g.signals), len(g.observers)
}

func sortedKeys[K ~int](m map[K]struct{}) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
