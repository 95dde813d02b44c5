package reactive

import (
	"math/rand"
	"testing"
)

// Integration tests for the reactive system.
// These tests verify that Signal, Memo and Effect work together correctly.

func TestIntegrationDiamondDependency(t *testing.T) {
	// Diamond pattern with an effect at the bottom
	//         A
	//        / \
	//       B   C
	//        \ /
	//         D (effect)
	//
	// Without glitch elimination D re-runs once per changed input.

	g := New()
	a := NewSignal(g, 1)
	b := NewMemo(g, func() int { return a.Get() * 2 })
	c := NewMemo(g, func() int { return a.Get() * 3 })

	runs := 0
	var lastSum int
	g.Effect(func() {
		runs++
		lastSum = b.Get() + c.Get()
	})

	if lastSum != 5 || runs != 1 {
		t.Fatalf("expected initial sum 5 after 1 run, got %d after %d", lastSum, runs)
	}

	a.Set(2)
	if lastSum != 10 {
		t.Errorf("expected sum 10, got %d", lastSum)
	}
	if runs != 3 {
		t.Errorf("expected 2 re-runs (one per memo), got %d runs", runs)
	}
}

func TestIntegrationCounterWalkthrough(t *testing.T) {
	g := New()
	count := NewSignal(g, 0)
	doubled := NewMemo(g, func() int { return count.Get() * 2 })

	var log []int
	g.Effect(func() {
		log = append(log, doubled.Get())
	})

	count.Update(func(n int) int { return n + 1 })
	count.Set(10)

	want := []int{0, 2, 20}
	if len(log) != len(want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("step %d: expected %d, got %d", i, want[i], log[i])
		}
	}
}

func TestIntegrationRandomizedEdgesStaySymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	g := New()

	const nSignals = 8
	signals := make([]*Signal[int], nSignals)
	for i := range signals {
		signals[i] = NewSignal(g, i)
	}

	// Each effect reads a data-dependent subset of the signals.
	for e := 0; e < 6; e++ {
		seed := e
		g.Effect(func() {
			mask := signals[seed].Get()
			for i, s := range signals {
				if (mask+i)%3 == 0 {
					_ = s.Get()
				}
			}
		})
	}

	for step := 0; step < 200; step++ {
		s := signals[rng.Intn(nSignals)]
		s.Set(rng.Intn(100))
		assertSymmetric(t, g)
		if t.Failed() {
			t.Fatalf("asymmetric graph after step %d", step)
		}
	}

	// Every recorded dependency set matches what the last run read.
	for oid := range g.observers {
		mask := signals[oid].Peek()
		want := map[SignalID]struct{}{signals[oid].ID(): {}}
		for i, s := range signals {
			if (mask+i)%3 == 0 {
				want[s.ID()] = struct{}{}
			}
		}
		got := g.Dependencies(ObserverID(oid))
		if len(got) != len(want) {
			t.Errorf("observer %d: expected %d dependencies, got %v", oid, len(want), got)
			continue
		}
		for _, sid := range got {
			if _, ok := want[sid]; !ok {
				t.Errorf("observer %d: unexpected dependency %d", oid, sid)
			}
		}
	}
}

func TestIntegrationEffectWritesOtherSignal(t *testing.T) {
	g := New()
	input := NewSignal(g, "")
	length := NewSignal(g, 0)

	g.Effect(func() {
		length.Set(len(input.Get()))
	})

	var observed int
	g.Effect(func() {
		observed = length.Get()
	})

	input.Set("hello")
	if observed != 5 {
		t.Errorf("expected 5, got %d", observed)
	}
	assertSymmetric(t, g)
}
