// Package inproc provides an in-process implementation of the group
// channel for tests and single-process experiments. A Hub wires one Root
// endpoint to N rank endpoints through unbuffered channels, so every
// primitive keeps the rendezvous-blocking behavior of the real transport:
// a rank blocks in a receive until the root issues the matching send, and
// a gather blocks the rank until the root collects its contribution.
//
// Each rank endpoint is driven by its own goroutine, typically spawned with
// Run, which mirrors how the production deployment runs one process per
// rank. Because all ranks share one address space, every transfer copies
// its payload so the root and the ranks never alias each other's buffers.
//
// Unlike a real transport, the hub can detect one class of protocol
// desync: a delivered message whose operation, element type, or count
// disagrees with the locally issued call fails with ErrShapeMismatch
// instead of corrupting data. Sequencing divergences still deadlock, which
// is the honest behavior of the production channel.
package inproc
