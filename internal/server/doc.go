// Package server implements the worker-side command dispatcher and the
// handler for each protocol command.
//
// # Event loop
//
// The dispatcher cycles Idle -> Dispatching -> Idle: it broadcast-receives
// one command token, looks it up in a fixed handler table, runs the handler
// synchronously to completion, and waits for the next token. Any token
// outside the valid range terminates the loop: the channel is released and
// Run returns nil. No command is ever partially executed; a handler error
// is returned from Run and the caller must treat the session as dead.
//
// # Handler discipline
//
// Each handler is a fixed sequence of collective transfers plus calls into
// the linalg layer and the handle registry. The sequence and the shapes
// of every transfer must match what the controller and every other rank
// issue for the same token; the handlers in this package are the single
// source of truth for those sequences on the worker side
// (internal/control is the controller-side mirror). Handlers never branch
// on data in ways that change the collective call sequence, with one
// specified exception: add-vector-entries returns right after the target
// rank broadcast on every rank the command does not address.
package server
