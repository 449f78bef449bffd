// Package linalg implements a worker's local portion of each distributed
// linear-algebra object: index distributions (maps), vectors, sparse
// graphs, and sparse matrices.
//
// Every object here is strictly rank-local. A Map holds only the global
// indices this rank owns, a Vector only the entries backing those indices,
// and so on. The logical whole exists only by convention: every rank builds
// its portion from the same collectively-delivered command, so rank-local
// objects with the same handle together form one distributed object. No
// type in this package communicates or synchronizes; the protocol layer
// above it supplies all cross-rank consistency.
//
// Graphs follow a two-phase build: rows are inserted while the graph is
// open, then FillComplete seals the structure. A sealed graph is immutable
// and is the only valid foundation for a Matrix.
package linalg
