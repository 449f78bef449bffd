// Package control implements the controller-side half of each protocol
// command: for every token it issues the exact mirror image of the
// collective sequence the worker handlers execute.
//
// The package contains no driving logic. Deciding which commands to issue,
// in what order, and with what partitioning remains the controller
// program's concern; these functions only guarantee that a single command's
// transfers are emitted with the right shapes in the right order, which is
// the part a caller must never get wrong. The demo controller binary and
// the integration tests are its users.
package control
