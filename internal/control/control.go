package control

import (
	"fmt"

	"github.com/dreamware/taura/internal/comm"
	"github.com/dreamware/taura/internal/wire"
)

// token broadcasts a command token to the whole group.
func token(r comm.Root, t wire.Token) error {
	return r.BroadcastByte(byte(t))
}

// sameHandle folds the per-rank gather of a creation command into the one
// handle it must be. Every rank registers collectively, so a disagreement
// means the registries have diverged and the session is unusable.
func sameHandle(handles []wire.Handle) (wire.Handle, error) {
	for _, h := range handles[1:] {
		if h != handles[0] {
			return 0, fmt.Errorf("ranks disagree on new handle: %v", handles)
		}
	}
	return handles[0], nil
}

// NewMap creates an index distribution of the given total size, with
// perRank[i] listing the global indices rank i owns. It returns the new
// map handle.
func NewMap(r comm.Root, size wire.Size, perRank [][]wire.GlobalIndex) (wire.Handle, error) {
	if len(perRank) != r.Size() {
		return 0, fmt.Errorf("partition has %d parts for %d ranks", len(perRank), r.Size())
	}
	if err := token(r, wire.TokenNewMap); err != nil {
		return 0, err
	}
	if err := r.BroadcastSize(size); err != nil {
		return 0, err
	}
	if err := comm.RootScatterVarGlobals(r, perRank); err != nil {
		return 0, err
	}
	handles, err := r.GatherHandles()
	if err != nil {
		return 0, err
	}
	return sameHandle(handles)
}

// NewVector creates a zero-valued vector over an existing map and returns
// the new vector handle.
func NewVector(r comm.Root, mapHandle wire.Handle) (wire.Handle, error) {
	if err := token(r, wire.TokenNewVector); err != nil {
		return 0, err
	}
	if err := r.BroadcastHandle(mapHandle); err != nil {
		return 0, err
	}
	handles, err := r.GatherHandles()
	if err != nil {
		return 0, err
	}
	return sameHandle(handles)
}

// NewGraph creates and seals a sparse graph over an existing map.
// rowCounts[i] holds rank i's per-row column counts (one entry per local
// row, zero entries allowed); cols[i] holds rank i's concatenated column
// indices. It returns the new graph handle.
func NewGraph(r comm.Root, mapHandle wire.Handle, rowCounts [][]wire.Size, cols [][]wire.GlobalIndex) (wire.Handle, error) {
	if len(rowCounts) != r.Size() || len(cols) != r.Size() {
		return 0, fmt.Errorf("graph structure has %d/%d parts for %d ranks", len(rowCounts), len(cols), r.Size())
	}
	if err := token(r, wire.TokenNewGraph); err != nil {
		return 0, err
	}
	if err := r.BroadcastHandle(mapHandle); err != nil {
		return 0, err
	}
	if err := r.ScatterSizes(rowCounts); err != nil {
		return 0, err
	}
	if err := r.ScatterGlobals(cols); err != nil {
		return 0, err
	}
	handles, err := r.GatherHandles()
	if err != nil {
		return 0, err
	}
	return sameHandle(handles)
}

// NewMatrix creates a zero-valued sparse matrix over a sealed graph and
// returns the new matrix handle.
func NewMatrix(r comm.Root, graphHandle wire.Handle) (wire.Handle, error) {
	if err := token(r, wire.TokenNewMatrix); err != nil {
		return 0, err
	}
	if err := r.BroadcastHandle(graphHandle); err != nil {
		return 0, err
	}
	handles, err := r.GatherHandles()
	if err != nil {
		return 0, err
	}
	return sameHandle(handles)
}

// AddVectorEntries accumulates (index, value) pairs into rank's slice of
// the vector. idx and vals must have equal length; zero items is a valid
// no-op on the target.
func AddVectorEntries(r comm.Root, rank int, vectorHandle wire.Handle, idx []wire.GlobalIndex, vals []wire.Scalar) error {
	if len(idx) != len(vals) {
		return fmt.Errorf("%d indices for %d values", len(idx), len(vals))
	}
	if rank < 0 || rank >= r.Size() {
		return fmt.Errorf("target rank %d out of range [0, %d)", rank, r.Size())
	}
	if err := token(r, wire.TokenAddVectorEntries); err != nil {
		return err
	}
	if err := r.BroadcastSize(wire.Size(rank)); err != nil {
		return err
	}
	if err := r.SendHandle(rank, vectorHandle); err != nil {
		return err
	}
	if err := r.SendSize(rank, wire.Size(len(idx))); err != nil {
		return err
	}
	if err := r.SendGlobals(rank, idx); err != nil {
		return err
	}
	return r.SendScalars(rank, vals)
}

// GetVector collects every rank's local entries of the vector, in rank
// order.
func GetVector(r comm.Root, vectorHandle wire.Handle) ([][]wire.Scalar, error) {
	if err := token(r, wire.TokenGetVector); err != nil {
		return nil, err
	}
	if err := r.BroadcastHandle(vectorHandle); err != nil {
		return nil, err
	}
	return r.GatherScalars()
}

// Shutdown broadcasts a termination token. Every worker exits its event
// loop and disconnects; the root should Close afterwards.
func Shutdown(r comm.Root) error {
	return r.BroadcastByte(byte(wire.NumTokens))
}
