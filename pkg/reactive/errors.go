package reactive

import "errors"

// ErrDepthExceeded is the cause of the panic raised when nested observer
// executions exceed the limit configured with WithMaxDepth.
//
// The panic value is an error, so callers that recover can test it with
// errors.Is(err, ErrDepthExceeded).
var ErrDepthExceeded = errors.New("reactive: propagation depth exceeded")

// ErrNilBody is the cause of the panic raised when an effect or memo is
// created with a nil function.
var ErrNilBody = errors.New("reactive: nil effect body")
