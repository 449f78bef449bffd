// Package comm abstracts the group communication channel between the
// controller and the worker pool. The protocol core never touches a
// transport directly; it speaks to the Comm interface (worker side) or the
// Root interface (controller side), so a real multi-process transport and
// an in-process simulated transport are interchangeable.
//
// # Topology
//
// One controller (the root) drives N workers (ranks 0..N-1):
//
//	            ┌────────────┐
//	            │ Controller │  Root: send half of every primitive
//	            └─────┬──────┘
//	                  │ group channel
//	     ┌────────────┼────────────┐
//	┌────▼────┐  ┌────▼────┐  ┌────▼────┐
//	│ rank 0  │  │ rank 1  │  │ rank 2  │  Comm: receive half
//	└─────────┘  └─────────┘  └─────────┘
//
// # Collective discipline
//
// Every primitive is a blocking, rendezvous-style operation. Correctness
// rests entirely on call symmetry: the root and every rank must issue the
// matching calls in the same order with the same shapes (counts and element
// types). A divergent sequence surfaces as ErrShapeMismatch when the
// delivered message's shape disagrees with the local call, and as a hang
// when the shapes happen to line up. Neither is recoverable.
//
// Variable-length transfers are two-phase: a count phase sizes the local
// buffer, then a payload phase moves the data. ScatterVarGlobals bundles
// the two phases into a single composite call so they cannot be reordered
// or split by accident.
//
// # Failure policy
//
// Transports are assumed reliable. Any error returned from a primitive is
// fatal to the whole session: there is no resynchronization mechanism, no
// heartbeat, and no error-reply channel distinct from the data channel.
// Callers must tear down the process rather than attempt recovery.
package comm
