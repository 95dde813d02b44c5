package reactive

import (
	"errors"
	"testing"

	sgerrors "github.com/vango-dev/signalgraph/internal/errors"
)

func TestEffectRunsImmediately(t *testing.T) {
	g := New()

	runs := 0
	id := g.Effect(func() { runs++ })

	if runs != 1 {
		t.Errorf("expected 1 run at construction, got %d", runs)
	}
	if g.Runs(id) != 1 {
		t.Errorf("expected Runs() = 1, got %d", g.Runs(id))
	}
	if g.State(id) != StateIdle {
		t.Errorf("expected idle after run, got %s", g.State(id))
	}
}

func TestEffectDependencyDiscovery(t *testing.T) {
	g := New()
	s := NewSignal(g, 0)

	runs := 0
	g.Effect(func() {
		runs++
		_ = s.Get()
	})

	for i := 1; i <= 3; i++ {
		s.Set(i)
		if runs != i+1 {
			t.Fatalf("after write %d: expected %d runs, got %d", i, i+1, runs)
		}
	}
}

func TestEffectUnreadSignalDoesNotTrigger(t *testing.T) {
	g := New()
	a := NewSignal(g, 0)
	b := NewSignal(g, 0)

	runs := 0
	g.Effect(func() {
		runs++
		_ = a.Get()
	})

	b.Set(1)
	if runs != 1 {
		t.Errorf("expected write to unread signal to be ignored, got %d runs", runs)
	}
}

func TestEffectStaleEdgeElimination(t *testing.T) {
	g := New()
	useFirst := NewSignal(g, true)
	first := NewSignal(g, "first")
	second := NewSignal(g, "second")

	runs := 0
	id := g.Effect(func() {
		runs++
		if useFirst.Get() {
			_ = first.Get()
		} else {
			_ = second.Get()
		}
	})

	assertDeps(t, g, id, useFirst.ID(), first.ID())

	for i := 0; i < 6; i++ {
		useFirst.Update(func(v bool) bool { return !v })

		if useFirst.Peek() {
			assertDeps(t, g, id, useFirst.ID(), first.ID())
		} else {
			assertDeps(t, g, id, useFirst.ID(), second.ID())
		}
		assertSymmetric(t, g)
	}

	// useFirst is true again; the other branch must be inert.
	before := runs
	second.Set("ignored")
	if runs != before {
		t.Errorf("expected stale dependency to be dropped, got %d extra runs", runs-before)
	}
	first.Set("tracked")
	if runs != before+1 {
		t.Errorf("expected current dependency to trigger, got %d extra runs", runs-before)
	}
}

func TestEffectNoDuplicateEdges(t *testing.T) {
	g := New()
	s := NewSignal(g, 0)

	runs := 0
	g.Effect(func() {
		runs++
		_ = s.Get()
		_ = s.Get()
		_ = s.Get()
	})

	if n := len(g.Subscribers(s.ID())); n != 1 {
		t.Errorf("expected 1 subscriber, got %d", n)
	}

	s.Set(1)
	if runs != 2 {
		t.Errorf("expected exactly one re-run, got %d runs", runs)
	}
}

func TestEffectResubscribingDuringPropagationRunsOnce(t *testing.T) {
	// The effect removes itself from s during cleanup and re-adds itself
	// during its body, all while s is notifying.
	g := New()
	s := NewSignal(g, 0)

	runs := 0
	g.Effect(func() {
		runs++
		_ = s.Get()
	})

	s.Set(1)
	if runs != 2 {
		t.Errorf("expected 2 runs, got %d", runs)
	}
	if n := len(g.Subscribers(s.ID())); n != 1 {
		t.Errorf("expected 1 subscriber after propagation, got %d", n)
	}
}

func TestEffectSubscribersRunInCreationOrder(t *testing.T) {
	g := New()
	s := NewSignal(g, 0)

	var order []string
	for _, name := range []string{"a", "b", "c", "d"} {
		name := name
		g.Effect(func() {
			if s.Get() > 0 {
				order = append(order, name)
			}
		})
	}

	s.Set(1)
	want := "abcd"
	got := ""
	for _, o := range order {
		got += o
	}
	if got != want {
		t.Errorf("expected order %q, got %q", want, got)
	}
}

func TestEffectChainedWrites(t *testing.T) {
	// signal -> effect -> signal write -> effect
	g := New()
	celsius := NewSignal(g, 0.0)
	fahrenheit := NewSignal(g, 0.0)

	g.Effect(func() {
		fahrenheit.Set(celsius.Get()*9/5 + 32)
	})

	var observed []float64
	g.Effect(func() {
		observed = append(observed, fahrenheit.Get())
	})

	celsius.Set(100)
	if fahrenheit.Peek() != 212 {
		t.Errorf("expected 212, got %f", fahrenheit.Peek())
	}
	if len(observed) != 2 || observed[1] != 212 {
		t.Errorf("unexpected observations %v", observed)
	}
}

func TestEffectPanicPropagatesAndRestoresContext(t *testing.T) {
	g := New()
	s := NewSignal(g, 0)

	runs := 0
	id := g.Effect(func() {
		runs++
		if s.Get() == 1 {
			panic("boom")
		}
	})

	r := catchPanic(func() { s.Set(1) })
	if r != "boom" {
		t.Fatalf("expected panic boom, got %v", r)
	}

	if g.Tracking() {
		t.Error("expected empty context after panic")
	}
	if len(g.stack) != 0 || g.running != 0 {
		t.Errorf("expected balanced stack, got stack=%v running=%d", g.stack, g.running)
	}
	if g.State(id) != StateIdle {
		t.Errorf("expected idle after panic, got %s", g.State(id))
	}

	// A read outside any effect must not be attributed to the failed one.
	other := NewSignal(g, 0)
	_ = other.Get()
	if n := len(g.Subscribers(other.ID())); n != 0 {
		t.Errorf("expected no subscribers for untracked read, got %d", n)
	}

	// The read before the panic kept the subscription.
	s.Set(2)
	if runs != 3 {
		t.Errorf("expected 3 runs, got %d", runs)
	}
	assertSymmetric(t, g)
}

func TestEffectPanicSkipsRemainingObservers(t *testing.T) {
	g := New()
	s := NewSignal(g, 0)

	g.Effect(func() {
		if s.Get() == 1 {
			panic("first observer failed")
		}
	})

	secondRuns := 0
	g.Effect(func() {
		secondRuns++
		_ = s.Get()
	})

	if r := catchPanic(func() { s.Set(1) }); r == nil {
		t.Fatal("expected panic")
	}
	if secondRuns != 1 {
		t.Errorf("expected second observer to be skipped, got %d runs", secondRuns)
	}
}

func TestEffectPanicDuringConstruction(t *testing.T) {
	g := New()

	r := catchPanic(func() {
		g.Effect(func() { panic("init") })
	})
	if r != "init" {
		t.Fatalf("expected init panic, got %v", r)
	}
	if g.Tracking() {
		t.Error("expected empty context after failed construction")
	}
}

func TestNestedEffectCreation(t *testing.T) {
	g := New()
	a := NewSignal(g, 0)
	b := NewSignal(g, 0)

	innerRuns := 0
	var inner ObserverID
	outer := g.Effect(func() {
		inner = g.Effect(func() {
			innerRuns++
			_ = b.Get()
		})
		_ = a.Get()
	})

	assertDeps(t, g, outer, a.ID())
	assertDeps(t, g, inner, b.ID())

	b.Set(1)
	if innerRuns != 2 {
		t.Errorf("expected inner to re-run on b, got %d runs", innerRuns)
	}
	if g.Runs(outer) != 1 {
		t.Errorf("expected outer untouched by b, got %d runs", g.Runs(outer))
	}

	// Re-running outer creates a fresh inner observer; there is no disposal.
	a.Set(1)
	_, observers := g.Len()
	if observers != 3 {
		t.Errorf("expected 3 observers, got %d", observers)
	}
	assertSymmetric(t, g)
}

func TestObserverStateTransitions(t *testing.T) {
	var cleaningStates []ObserverState
	var g *Graph
	g = New(WithHooks(HookFunc(func(e Event) {
		if e.Kind == EventUnsubscribed {
			cleaningStates = append(cleaningStates, g.State(e.Observer))
		}
	})))
	s := NewSignal(g, 0)

	var bodyStates []ObserverState
	id := g.Effect(func() {
		bodyStates = append(bodyStates, g.State(0))
		_ = s.Get()
	})
	s.Set(1)

	for _, st := range bodyStates {
		if st != StateRunning {
			t.Errorf("expected running inside body, got %s", st)
		}
	}
	if len(cleaningStates) != 1 || cleaningStates[0] != StateCleaning {
		t.Errorf("expected one unsubscribe while cleaning, got %v", cleaningStates)
	}
	if g.State(id) != StateIdle {
		t.Errorf("expected idle, got %s", g.State(id))
	}
}

func TestMaxDepthStopsSelfTriggeringEffect(t *testing.T) {
	g := New(WithMaxDepth(10))
	s := NewSignal(g, 0)

	r := catchPanic(func() {
		g.Effect(func() {
			s.Set(s.Get() + 1)
		})
	})

	err, ok := r.(error)
	if !ok {
		t.Fatalf("expected error panic, got %T %v", r, r)
	}
	if !errors.Is(err, ErrDepthExceeded) {
		t.Errorf("expected ErrDepthExceeded, got %v", err)
	}
	var coded *sgerrors.Error
	if !errors.As(err, &coded) || coded.Code != "E101" {
		t.Errorf("expected E101, got %v", err)
	}

	if s.Peek() != 10 {
		t.Errorf("expected 10 completed writes, got %d", s.Peek())
	}
	if len(g.stack) != 0 || g.running != 0 {
		t.Errorf("expected balanced stack, got stack=%v running=%d", g.stack, g.running)
	}
}

func TestMaxDepthRejectsNestedEffectBeforeCreatingIt(t *testing.T) {
	rec := &recorder{}
	g := New(WithMaxDepth(1), WithHooks(rec))

	r := catchPanic(func() {
		g.Effect(func() {
			g.Effect(func() {})
		}, WithLabel("outer"))
	})

	err, ok := r.(error)
	if !ok || !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("expected ErrDepthExceeded panic, got %v", r)
	}
	if _, observers := g.Len(); observers != 1 {
		t.Errorf("expected only the outer observer in the graph, got %d", observers)
	}
	created := 0
	for _, e := range rec.events {
		if e.Kind == EventObserverCreated {
			created++
		}
	}
	if created != 1 {
		t.Errorf("expected 1 observer_created event, got %d", created)
	}

	r = catchPanic(func() {
		g.Effect(func() {
			NewMemo(g, func() int { return 1 })
		})
	})
	if err, ok := r.(error); !ok || !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("expected ErrDepthExceeded panic from nested memo, got %v", r)
	}
	if signals, _ := g.Len(); signals != 0 {
		t.Errorf("expected the nested memo to leave no signal behind, got %d", signals)
	}
}

func TestUnlimitedDepthAllowsTerminatingRecursion(t *testing.T) {
	g := New()
	s := NewSignal(g, 0)

	g.Effect(func() {
		if v := s.Get(); v < 100 {
			s.Set(v + 1)
		}
	})

	if s.Peek() != 100 {
		t.Errorf("expected 100, got %d", s.Peek())
	}
	if g.MaxDepth() != 0 {
		t.Errorf("expected no limit by default, got %d", g.MaxDepth())
	}
}

func TestEffectNilBodyPanics(t *testing.T) {
	g := New()
	r := catchPanic(func() { g.Effect(nil) })

	err, ok := r.(error)
	if !ok || !errors.Is(err, ErrNilBody) {
		t.Errorf("expected ErrNilBody panic, got %v", r)
	}
}

func TestObserverStateString(t *testing.T) {
	cases := map[ObserverState]string{
		StateIdle:         "idle",
		StateCleaning:     "cleaning",
		StateRunning:      "running",
		ObserverState(42): "unknown",
	}
	for st, want := range cases {
		if st.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", st, st.String(), want)
		}
	}
}
