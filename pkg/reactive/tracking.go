package reactive

// push makes id the observer that reads are attributed to.
func (g *Graph) push(id ObserverID) {
	g.stack = append(g.stack, id)
}

// pop restores the previous attribution. Every push is matched by exactly
// one pop before the pushing call returns, including on panic.
func (g *Graph) pop() {
	g.stack = g.stack[:len(g.stack)-1]
}

// current returns the observer reads are attributed to, if any.
func (g *Graph) current() (ObserverID, bool) {
	if len(g.stack) == 0 {
		return noObserver, false
	}
	top := g.stack[len(g.stack)-1]
	return top, top != noObserver
}

// Tracking reports whether a signal read right now would subscribe an
// observer.
func (g *Graph) Tracking() bool {
	_, ok := g.current()
	return ok
}

// Untracked runs fn without attributing signal reads to the running
// observer. Reads inside fn return values but create no subscriptions.
//
// Example:
//
//	g.Effect(func() {
//	    // The effect depends on a only.
//	    sum := a.Get()
//	    g.Untracked(func() { sum += b.Get() })
//	    fmt.Println(sum)
//	})
//
// For single signal reads, Peek is shorter and clearer in intent.
func (g *Graph) Untracked(fn func()) {
	g.push(noObserver)
	defer g.pop()
	fn()
}

// Untracked runs fn on the default graph without tracking reads.
func Untracked(fn func()) {
	defaultGraph.Untracked(fn)
}

// track registers the bidirectional edge between the current observer and
// sid. Repeated reads within one run are no-ops.
func (g *Graph) track(sid SignalID) {
	oid, ok := g.current()
	if !ok {
		return
	}
	s := g.signals[sid]
	if _, dup := s.subs[oid]; dup {
		return
	}
	s.subs[oid] = struct{}{}
	g.observers[oid].deps[sid] = struct{}{}
	g.emit(Event{Kind: EventSubscribed, Signal: sid, Observer: oid})
}
