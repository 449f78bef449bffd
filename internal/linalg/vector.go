package linalg

import (
	"github.com/dreamware/taura/internal/wire"
)

// Vector is this rank's slice of a distributed vector: one entry per
// locally-owned index of its Map, in local order. Entries start at zero
// and are only ever mutated by accumulation.
type Vector struct {
	dist   *Map
	values []wire.Scalar
}

// NewVector builds a zero-valued vector over an index distribution.
func NewVector(dist *Map) *Vector {
	return &Vector{
		dist:   dist,
		values: make([]wire.Scalar, dist.NumLocal()),
	}
}

// Map returns the index distribution backing the vector.
func (v *Vector) Map() *Map { return v.dist }

// SumInto adds value into the entry at the given global index. Addition is
// cumulative: two identical SumInto calls double the contribution. The
// index must be owned by this rank.
func (v *Vector) SumInto(g wire.GlobalIndex, value wire.Scalar) error {
	i, ok := v.dist.LocalIndex(g)
	if !ok {
		return &ErrIndexNotOwned{Index: g}
	}
	v.values[i] += value
	return nil
}

// LocalData returns a copy of this rank's entries in local order.
func (v *Vector) LocalData() []wire.Scalar {
	out := make([]wire.Scalar, len(v.values))
	copy(out, v.values)
	return out
}
