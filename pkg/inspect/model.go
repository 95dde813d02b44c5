package inspect

import (
	"slices"

	"github.com/vango-dev/signalgraph/pkg/reactive"
)

type signalModel struct {
	label  string
	writes uint64
	subs   map[reactive.ObserverID]struct{}
}

type observerModel struct {
	label  string
	runs   uint64
	active int
	deps   map[reactive.SignalID]struct{}
}

// graphModel is the inspector's copy of one graph, rebuilt from events.
// Handles are dense, so nodes are kept in creation order.
type graphModel struct {
	id        uint64
	signals   []*signalModel
	observers []*observerModel
	events    uint64
}

func newGraphModel(id uint64) *graphModel {
	return &graphModel{id: id}
}

func (m *graphModel) signal(id reactive.SignalID) *signalModel {
	for int(id) >= len(m.signals) {
		m.signals = append(m.signals, &signalModel{subs: make(map[reactive.ObserverID]struct{})})
	}
	return m.signals[id]
}

func (m *graphModel) observer(id reactive.ObserverID) *observerModel {
	for int(id) >= len(m.observers) {
		m.observers = append(m.observers, &observerModel{deps: make(map[reactive.SignalID]struct{})})
	}
	return m.observers[id]
}

// apply folds one event into the model.
func (m *graphModel) apply(e reactive.Event) {
	m.events++

	switch e.Kind {
	case reactive.EventSignalCreated:
		m.signal(e.Signal).label = e.Label
	case reactive.EventObserverCreated:
		m.observer(e.Observer).label = e.Label
	case reactive.EventSubscribed:
		m.signal(e.Signal).subs[e.Observer] = struct{}{}
		m.observer(e.Observer).deps[e.Signal] = struct{}{}
	case reactive.EventUnsubscribed:
		delete(m.signal(e.Signal).subs, e.Observer)
		delete(m.observer(e.Observer).deps, e.Signal)
	case reactive.EventSignalWritten:
		m.signal(e.Signal).writes++
	case reactive.EventRunStarted:
		o := m.observer(e.Observer)
		o.runs = e.Run
		o.active++
	case reactive.EventRunFinished:
		if o := m.observer(e.Observer); o.active > 0 {
			o.active--
		}
	}
}

// snapshot converts the model to the same shape reactive.Graph.Snapshot
// returns. The cleaning phase is never visible between events, so observers
// are either running or idle.
func (m *graphModel) snapshot() reactive.Snapshot {
	snap := reactive.Snapshot{
		Graph:     m.id,
		Signals:   make([]reactive.SignalInfo, len(m.signals)),
		Observers: make([]reactive.ObserverInfo, len(m.observers)),
	}
	for i, s := range m.signals {
		snap.Signals[i] = reactive.SignalInfo{
			ID:          reactive.SignalID(i),
			Label:       s.label,
			Writes:      s.writes,
			Subscribers: sortedKeys(s.subs),
		}
	}
	for i, o := range m.observers {
		state := reactive.StateIdle
		if o.active > 0 {
			state = reactive.StateRunning
		}
		snap.Observers[i] = reactive.ObserverInfo{
			ID:           reactive.ObserverID(i),
			Label:        o.label,
			State:        state,
			Runs:         o.runs,
			Dependencies: sortedKeys(o.deps),
		}
	}
	return snap
}

// GraphSummary is the per-graph entry of GET /graphs.
type GraphSummary struct {
	ID        uint64 `json:"id"`
	Signals   int    `json:"signals"`
	Observers int    `json:"observers"`
	Edges     int    `json:"edges"`
	Events    uint64 `json:"events"`
}

func (m *graphModel) summary() GraphSummary {
	edges := 0
	for _, s := range m.signals {
		edges += len(s.subs)
	}
	return GraphSummary{
		ID:        m.id,
		Signals:   len(m.signals),
		Observers: len(m.observers),
		Edges:     edges,
		Events:    m.events,
	}
}

func sortedKeys[K ~int](m map[K]struct{}) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
