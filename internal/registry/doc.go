// Package registry implements the per-process handle tables that tie
// protocol handles to live rank-local objects.
//
// # Handle model
//
// Four independent tables exist, one per object kind (map, vector, graph,
// matrix). Each table is append-only: registering an object assigns the
// next handle in creation order, handles are never reused, and there is no
// removal. Objects live until the worker process exits.
//
// # Cross-rank consistency
//
// A handle is only meaningful because every rank executes every creation
// command collectively and in the same order, so the Nth registration in a
// table refers to the same logical distributed object on every rank (each
// rank holding its own local portion). The registry itself neither checks
// nor enforces this; it is a protocol invariant owned by the dispatcher's
// lockstep discipline.
//
// # Concurrency
//
// A Registry has no internal locking. Exactly one command executes at a
// time on a worker, and handlers run to completion before the next token
// is read, so no synchronization is needed. Construct a fresh Registry per
// server (and per test); there is no package-level state.
package registry
