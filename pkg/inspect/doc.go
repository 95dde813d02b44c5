// Package inspect serves a live view of reactive graphs over HTTP.
//
// An Inspector is a reactive.Hook. Attach it to any number of graphs and it
// mirrors their events into its own model, which is safe to read from other
// goroutines while the graphs keep running:
//
//	ins := inspect.New(inspect.WithGatherer(reg))
//	g := reactive.New(reactive.WithHooks(ins))
//	go ins.ListenAndServe(ctx, "localhost:7070")
//
// Routes:
//
//	GET /healthz            liveness probe
//	GET /graphs             summary of every known graph
//	GET /graphs/{graphID}   full snapshot of one graph
//	GET /events             WebSocket stream of events as JSON
//	GET /metrics            Prometheus exposition, when a gatherer is set
//
// The /events stream accepts an optional ?graph=ID query to receive a single
// graph's events. Slow clients lose events rather than stall the graph.
package inspect
