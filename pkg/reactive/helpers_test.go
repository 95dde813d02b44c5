package reactive

import (
	"slices"
	"testing"
)

// catchPanic runs fn and returns the recovered panic value, if any.
func catchPanic(fn func()) (r any) {
	defer func() {
		r = recover()
	}()
	fn()
	return nil
}

// assertSymmetric checks that every forward edge has its back-edge and
// vice versa.
func assertSymmetric(t *testing.T, g *Graph) {
	t.Helper()
	for sid, s := range g.signals {
		for oid := range s.subs {
			if _, ok := g.observers[oid].deps[SignalID(sid)]; !ok {
				t.Errorf("signal %d lists observer %d, but observer does not depend on it", sid, oid)
			}
		}
	}
	for oid, o := range g.observers {
		for sid := range o.deps {
			if _, ok := g.signals[sid].subs[ObserverID(oid)]; !ok {
				t.Errorf("observer %d depends on signal %d, but signal does not list it", oid, sid)
			}
		}
	}
}

func assertDeps(t *testing.T, g *Graph, id ObserverID, want ...SignalID) {
	t.Helper()
	got := g.Dependencies(id)
	if !slices.Equal(got, want) {
		t.Errorf("dependencies of observer %d = %v, want %v", id, got, want)
	}
}
