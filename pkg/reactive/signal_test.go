package reactive

import (
	"testing"
)

func TestSignalValuePropagation(t *testing.T) {
	g := New()
	s := NewSignal(g, 0)

	if s.Get() != 0 {
		t.Errorf("expected 0, got %d", s.Get())
	}

	s.Set(5)
	if s.Get() != 5 {
		t.Errorf("expected 5, got %d", s.Get())
	}
}

func TestSignalUpdate(t *testing.T) {
	g := New()
	count := NewSignal(g, 0)

	count.Update(func(n int) int { return n + 1 })
	if count.Get() != 1 {
		t.Errorf("expected 1, got %d", count.Get())
	}

	count.Set(10)
	if count.Get() != 10 {
		t.Errorf("expected 10, got %d", count.Get())
	}
}

func TestSignalUpdateTriggersEffects(t *testing.T) {
	g := New()
	count := NewSignal(g, 0)

	var seen []int
	g.Effect(func() {
		seen = append(seen, count.Get())
	})

	count.Update(func(n int) int { return n + 1 })
	count.Update(func(n int) int { return n * 10 })

	want := []int{0, 1, 10}
	if len(seen) != len(want) {
		t.Fatalf("expected %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("run %d: expected %d, got %d", i, want[i], seen[i])
		}
	}
}

func TestSignalPeekDoesNotSubscribe(t *testing.T) {
	g := New()
	s := NewSignal(g, 1)

	runs := 0
	g.Effect(func() {
		runs++
		_ = s.Peek()
	})

	s.Set(2)
	if runs != 1 {
		t.Errorf("expected 1 run, got %d", runs)
	}
	if len(g.Subscribers(s.ID())) != 0 {
		t.Errorf("expected no subscribers, got %v", g.Subscribers(s.ID()))
	}
}

func TestSignalSameValueStillPropagates(t *testing.T) {
	g := New()
	s := NewSignal(g, 3)

	runs := 0
	g.Effect(func() {
		runs++
		_ = s.Get()
	})

	s.Set(3)
	if runs != 2 {
		t.Errorf("expected every write to propagate, got %d runs", runs)
	}
}

func TestSignalWithEquals(t *testing.T) {
	g := New()
	s := NewSignal(g, "a").WithEquals(func(a, b string) bool { return a == b })

	runs := 0
	g.Effect(func() {
		runs++
		_ = s.Get()
	})

	s.Set("a")
	if runs != 1 {
		t.Errorf("expected equal write to be dropped, got %d runs", runs)
	}

	s.Set("b")
	if runs != 2 {
		t.Errorf("expected 2 runs, got %d", runs)
	}
	if s.Peek() != "b" {
		t.Errorf("expected b, got %q", s.Peek())
	}
}

func TestSignalAccessors(t *testing.T) {
	g := New()
	read, write := NewSignal(g, 1.5).Accessors()

	runs := 0
	g.Effect(func() {
		runs++
		_ = read()
	})

	write(2.5)
	if read() != 2.5 {
		t.Errorf("expected 2.5, got %f", read())
	}
	if runs != 2 {
		t.Errorf("expected 2 runs, got %d", runs)
	}
}

func TestCreateSignalUsesDefaultGraph(t *testing.T) {
	count, setCount := CreateSignal(0)

	var last int
	CreateEffect(func() {
		last = count()
	})

	setCount(7)
	if last != 7 {
		t.Errorf("expected effect to observe 7, got %d", last)
	}
}

func TestSignalComplexTypes(t *testing.T) {
	type user struct {
		Name string
		Tags []string
	}

	g := New()
	u := NewSignal(g, user{Name: "ada"})
	items := NewSignal[[]int](g, nil)

	var names []string
	g.Effect(func() {
		names = append(names, u.Get().Name)
		_ = len(items.Get())
	})

	u.Set(user{Name: "grace", Tags: []string{"admin"}})
	items.Update(func(xs []int) []int { return append(xs, 1) })

	if len(names) != 3 || names[1] != "grace" {
		t.Errorf("unexpected runs %v", names)
	}
	if len(items.Peek()) != 1 {
		t.Errorf("expected 1 item, got %d", len(items.Peek()))
	}
}

func TestSignalLabel(t *testing.T) {
	g := New()
	named := NewSignal(g, 0, WithLabel("count"))
	unnamed := NewSignal(g, 0)

	if named.Label() != "count" {
		t.Errorf("expected label count, got %q", named.Label())
	}
	if unnamed.Label() != "signal-1" {
		t.Errorf("expected default label signal-1, got %q", unnamed.Label())
	}
	if named.Graph() != g {
		t.Error("expected signal to report its graph")
	}
}
