package server

import (
	"fmt"
	"math"

	"github.com/dreamware/taura/internal/comm"
	"github.com/dreamware/taura/internal/linalg"
	"github.com/dreamware/taura/internal/wire"
)

// Each handler documents its collective sequence in the order the calls
// appear on the wire. The controller-side mirror of each sequence lives in
// internal/control.

// handleNewMap builds a new index distribution.
//
//	-> broadcast (size)    full index space size
//	-> scatter   (size)    this rank's index count
//	-> scatterv  (global)  this rank's global indices
//	<- gather    (handle)  new map handle
func (s *Server) handleNewMap() error {
	size, err := s.comm.BroadcastSize()
	if err != nil {
		return err
	}
	owned, err := comm.ScatterVarGlobals(s.comm)
	if err != nil {
		return err
	}

	m, err := linalg.NewMap(size, owned)
	if err != nil {
		return err
	}
	h := s.registry.AddMap(m)
	s.logger.Debug("map created", "handle", h, "local", len(owned), "global", uint64(size))

	return s.comm.GatherHandle(h)
}

// handleNewVector builds a zero-valued vector over an existing map.
//
//	-> broadcast (handle)  map handle
//	<- gather    (handle)  new vector handle
func (s *Server) handleNewVector() error {
	mh, err := s.comm.BroadcastHandle()
	if err != nil {
		return err
	}
	m, err := s.registry.Map(mh)
	if err != nil {
		return err
	}

	h := s.registry.AddVector(linalg.NewVector(m))
	s.logger.Debug("vector created", "handle", h, "map", mh)

	return s.comm.GatherHandle(h)
}

// handleNewGraph builds and seals a sparse graph over an existing map.
//
//	-> broadcast (handle)  map handle
//	-> scatterv  (size)    per-row column counts, one per local row
//	-> scatterv  (global)  concatenated column indices
//	<- gather    (handle)  new graph handle
//
// The local row count is not transferred; it follows from the resolved
// map, which every rank holds by the time this command arrives.
func (s *Server) handleNewGraph() error {
	mh, err := s.comm.BroadcastHandle()
	if err != nil {
		return err
	}
	m, err := s.registry.Map(mh)
	if err != nil {
		return err
	}

	nrows := m.NumLocal()
	counts, err := s.comm.ScatterSizes(nrows)
	if err != nil {
		return err
	}

	// Aggregate entry count for the payload phase. Guarded against
	// overflow: a wrapped total would mis-size the next collective and
	// desync the whole group.
	nitems := 0
	for _, c := range counts {
		if c > math.MaxInt-wire.Size(nitems) {
			return fmt.Errorf("graph entry count overflows: %d rows totalling more than %d entries", nrows, math.MaxInt)
		}
		nitems += int(c)
	}

	cols, err := s.comm.ScatterGlobals(nitems)
	if err != nil {
		return err
	}

	g := linalg.NewGraph(m)
	offset := 0
	for row := 0; row < nrows; row++ {
		n := int(counts[row])
		if err := g.InsertRow(row, cols[offset:offset+n]); err != nil {
			return err
		}
		offset += n
	}
	if err := g.FillComplete(); err != nil {
		return err
	}

	h := s.registry.AddGraph(g)
	s.logger.Debug("graph created", "handle", h, "map", mh, "rows", nrows, "entries", nitems)

	return s.comm.GatherHandle(h)
}

// handleNewMatrix builds a zero-valued matrix over a sealed graph.
//
//	-> broadcast (handle)  graph handle
//	<- gather    (handle)  new matrix handle
//
// The graph must be fill-complete; a handle to an open graph is invalid.
func (s *Server) handleNewMatrix() error {
	gh, err := s.comm.BroadcastHandle()
	if err != nil {
		return err
	}
	g, err := s.registry.SealedGraph(gh)
	if err != nil {
		return err
	}

	mat, err := linalg.NewMatrix(g)
	if err != nil {
		return err
	}
	h := s.registry.AddMatrix(mat)
	s.logger.Debug("matrix created", "handle", h, "graph", gh)

	return s.comm.GatherHandle(h)
}

// handleAddVectorEntries accumulates (index, value) pairs into one rank's
// slice of a vector.
//
//	-> broadcast (size)    target rank
//	if target == this rank:
//	  -> recv (handle)  vector handle
//	  -> recv (size)    item count
//	  -> recv (global)  indices
//	  -> recv (scalar)  values
//
// Every rank participates in the rank broadcast; all ranks except the
// target then return immediately without further transfers. The early
// return is itself part of the lockstep sequence.
func (s *Server) handleAddVectorEntries() error {
	target, err := s.comm.BroadcastSize()
	if err != nil {
		return err
	}
	if target != wire.Size(s.comm.Rank()) {
		return nil
	}

	vh, err := s.comm.RecvHandle()
	if err != nil {
		return err
	}
	n, err := s.comm.RecvSize()
	if err != nil {
		return err
	}
	idx, err := s.comm.RecvGlobals(int(n))
	if err != nil {
		return err
	}
	vals, err := s.comm.RecvScalars(int(n))
	if err != nil {
		return err
	}

	vec, err := s.registry.Vector(vh)
	if err != nil {
		return err
	}
	for i := range idx {
		if err := vec.SumInto(idx[i], vals[i]); err != nil {
			return err
		}
	}
	s.logger.Debug("vector entries accumulated", "handle", vh, "items", uint64(n))

	return nil
}

// handleGetVector reports this rank's local vector entries back to the
// controller.
//
//	-> broadcast (handle)  vector handle
//	<- gatherv   (scalar)  this rank's local entries
func (s *Server) handleGetVector() error {
	vh, err := s.comm.BroadcastHandle()
	if err != nil {
		return err
	}
	vec, err := s.registry.Vector(vh)
	if err != nil {
		return err
	}
	return s.comm.GatherScalars(vec.LocalData())
}
