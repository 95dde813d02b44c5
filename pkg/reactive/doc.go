// Package reactive provides a fine-grained reactive dependency-tracking engine.
//
// A Graph holds signals (mutable value cells) and observers (effects) that
// re-run automatically, and only when, a signal they actually read changes.
// Dependencies are discovered at runtime: reading a signal while an effect is
// executing subscribes that effect to the signal. Every execution starts by
// dropping all edges from the previous run, so the graph always reflects the
// most recent read set.
//
// # Core Types
//
// Signal[T] is a reactive value container:
//
//	g := reactive.New()
//	count := reactive.NewSignal(g, 0)
//	value := count.Get()  // Read (subscribes the running effect, if any)
//	count.Set(5)          // Write (re-runs subscribed effects synchronously)
//	count.Update(func(n int) int { return n + 1 })
//
// Effects run once at construction and again on every write to a signal they
// read during their last run:
//
//	g.Effect(func() {
//	    fmt.Println("Count is:", count.Get())
//	})
//
// Memo[T] is a derived read-only signal. It is computed eagerly and
// recomputed whenever one of its inputs is written:
//
//	doubled := reactive.NewMemo(g, func() int { return count.Get() * 2 })
//	value := doubled.Get()
//
// The package-level CreateSignal, CreateEffect and CreateMemo operate on a
// process-wide default graph and return plain accessor functions:
//
//	read, write := reactive.CreateSignal(0)
//	reactive.CreateEffect(func() { fmt.Println(read()) })
//	write(1)
//
// # Propagation
//
// Propagation is synchronous and depth-first. A write snapshots the
// signal's subscribers (ordered by observer id) before re-running them, so an
// observer that unsubscribes and re-subscribes during its own run is executed
// once per write. A panic inside an effect body propagates out of the write
// that triggered it and the remaining observers of that write are skipped;
// the execution context is always restored.
//
// # Thread Safety
//
// A Graph is not safe for concurrent use. Drive each graph from a single
// goroutine; independent graphs may live on different goroutines. Use Hooks
// to observe a graph from elsewhere.
package reactive
