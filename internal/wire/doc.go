// Package wire defines the protocol-level vocabulary shared by every
// participant in a taura session: the fixed-width value types that cross
// the group channel, the one-byte command tokens, and the little-endian
// encoding helpers used by transports that frame their messages as bytes.
//
// # Value types
//
// Five value types appear on the wire. Their widths are part of the
// protocol contract and are reported by `worker info` so a controller can
// self-configure without hardcoding them:
//
//	Handle      int32    opaque object identifier
//	LocalIndex  int32    index into a rank's local slice
//	GlobalIndex int64    index into the global index space
//	Size        uint64   counts and sizes
//	Scalar      float64  numeric entries
//
// # Command tokens
//
// A command token is a single unsigned byte broadcast by the controller.
// Values 0..NumTokens-1 select a command handler; any value >= NumTokens
// terminates the event loop. The token ordering is fixed and position
// dependent: controller and workers must agree on it out of band, so it
// must never be reordered, only appended to.
//
// There is no versioning field and no framing beyond the collective call
// boundaries themselves.
package wire
