// Package errors provides coded, structured errors for signalgraph.
//
// The reactive engine itself reports almost nothing: a panic inside an
// effect body propagates untouched to whoever wrote the signal. The few
// conditions the engine and its tooling do report carry a stable code that
// maps to a registered message and explanation.
//
// # Error Categories
//
//   - runtime: raised by the reactive graph while propagating writes
//   - config: configuration files that cannot be read or do not validate
//   - inspector: the HTTP/WebSocket inspector
//   - cli: command line usage
//
// # Usage
//
//	err := errors.New("E201").
//	    WithDetail("log.level must be one of debug, info, warn, error").
//	    Wrap(cause)
//
//	fmt.Println(err.Format())
//	// ERROR E201: Invalid configuration
//	//
//	//   log.level must be one of debug, info, warn, error
package errors
