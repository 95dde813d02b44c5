package reactive

import "sync/atomic"

// graphIDCounter is the source of unique graph IDs.
var graphIDCounter uint64

// nextGraphID returns the next unique graph ID.
// IDs are monotonically increasing and never reused.
func nextGraphID() uint64 {
	return atomic.AddUint64(&graphIDCounter, 1)
}

// SignalID is the stable handle of a signal inside its graph.
type SignalID int

// ObserverID is the stable handle of an observer inside its graph.
// Handles are assigned in creation order.
type ObserverID int

// noObserver marks an untracked frame on the context stack.
const noObserver ObserverID = -1
