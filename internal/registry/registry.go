package registry

import (
	"fmt"

	"github.com/dreamware/taura/internal/linalg"
	"github.com/dreamware/taura/internal/wire"
)

// Kind names the handle table an object belongs to. A handle from one
// table is not valid in another.
type Kind string

const (
	KindMap    Kind = "map"
	KindVector Kind = "vector"
	KindGraph  Kind = "graph"
	KindMatrix Kind = "matrix"
)

// ErrInvalidHandle indicates a handle outside the current bounds of its
// table. Per the protocol's failure policy this is fatal to the session;
// there is no error-reply path back to the controller.
type ErrInvalidHandle struct {
	Kind   Kind
	Handle wire.Handle
	Len    int
}

func (e *ErrInvalidHandle) Error() string {
	return fmt.Sprintf("invalid %s handle %d (table has %d entries)", e.Kind, e.Handle, e.Len)
}

// Registry owns the four handle tables for one worker process.
//
// The zero value is not usable; construct with New.
type Registry struct {
	maps     []*linalg.Map
	vectors  []*linalg.Vector
	graphs   []*linalg.Graph
	matrices []*linalg.Matrix
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{}
}

// AddMap appends a map and returns its handle.
func (r *Registry) AddMap(m *linalg.Map) wire.Handle {
	r.maps = append(r.maps, m)
	return wire.Handle(len(r.maps) - 1)
}

// AddVector appends a vector and returns its handle.
func (r *Registry) AddVector(v *linalg.Vector) wire.Handle {
	r.vectors = append(r.vectors, v)
	return wire.Handle(len(r.vectors) - 1)
}

// AddGraph appends a graph and returns its handle.
func (r *Registry) AddGraph(g *linalg.Graph) wire.Handle {
	r.graphs = append(r.graphs, g)
	return wire.Handle(len(r.graphs) - 1)
}

// AddMatrix appends a matrix and returns its handle.
func (r *Registry) AddMatrix(m *linalg.Matrix) wire.Handle {
	r.matrices = append(r.matrices, m)
	return wire.Handle(len(r.matrices) - 1)
}

// Map resolves a map handle.
func (r *Registry) Map(h wire.Handle) (*linalg.Map, error) {
	if h < 0 || int(h) >= len(r.maps) {
		return nil, &ErrInvalidHandle{Kind: KindMap, Handle: h, Len: len(r.maps)}
	}
	return r.maps[h], nil
}

// Vector resolves a vector handle.
func (r *Registry) Vector(h wire.Handle) (*linalg.Vector, error) {
	if h < 0 || int(h) >= len(r.vectors) {
		return nil, &ErrInvalidHandle{Kind: KindVector, Handle: h, Len: len(r.vectors)}
	}
	return r.vectors[h], nil
}

// Graph resolves a graph handle.
func (r *Registry) Graph(h wire.Handle) (*linalg.Graph, error) {
	if h < 0 || int(h) >= len(r.graphs) {
		return nil, &ErrInvalidHandle{Kind: KindGraph, Handle: h, Len: len(r.graphs)}
	}
	return r.graphs[h], nil
}

// SealedGraph resolves a graph handle and additionally requires the graph
// to be fill-complete. A handle to an open graph fails with
// ErrInvalidHandle wrapping linalg.ErrNotFillComplete, because the
// construction prerequisite of the referenced entry is not met.
func (r *Registry) SealedGraph(h wire.Handle) (*linalg.Graph, error) {
	g, err := r.Graph(h)
	if err != nil {
		return nil, err
	}
	if !g.FillCompleted() {
		return nil, fmt.Errorf("%w: %w", &ErrInvalidHandle{Kind: KindGraph, Handle: h, Len: len(r.graphs)}, linalg.ErrNotFillComplete)
	}
	return g, nil
}

// Matrix resolves a matrix handle.
func (r *Registry) Matrix(h wire.Handle) (*linalg.Matrix, error) {
	if h < 0 || int(h) >= len(r.matrices) {
		return nil, &ErrInvalidHandle{Kind: KindMatrix, Handle: h, Len: len(r.matrices)}
	}
	return r.matrices[h], nil
}

// Counts returns the current length of each table, keyed by kind. Used for
// logging and tests.
func (r *Registry) Counts() map[Kind]int {
	return map[Kind]int{
		KindMap:    len(r.maps),
		KindVector: len(r.vectors),
		KindGraph:  len(r.graphs),
		KindMatrix: len(r.matrices),
	}
}
