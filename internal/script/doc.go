// Package script is the only channel between the core and the host.
//
// The host exposes a synchronous Bridge that executes script text and returns
// a bounded result string. Callers never build script text themselves: they
// construct a Request, and Encode validates it (rejecting NaN and infinity,
// clamping ranged values) before serializing it. Encode is the single place
// where values are turned into script tokens.
//
// Client wraps a Bridge with logging and request IDs and applies the error
// policy: failed reads mean "no data", failed writes are logged and never
// retried, and failed destructive writes raise a host alert.
package script
