package linalg

import (
	"fmt"

	"github.com/dreamware/taura/internal/wire"
)

// Map is this rank's portion of an index distribution: it records which
// global indices of a size-element index space the rank owns, and in what
// local order. The union of all ranks' portions covers the space exactly
// once; that invariant is the controller's responsibility and is not
// verified here, but indices duplicated within a single rank's list are
// rejected because they would corrupt the local lookup.
//
// A Map is immutable after construction.
type Map struct {
	local map[wire.GlobalIndex]int // global index -> local position
	owned []wire.GlobalIndex       // local position -> global index
	size  wire.Size                // size of the full index space
}

// NewMap builds the local portion of an index distribution. owned lists
// this rank's global indices in local order; it may be empty for a rank
// that owns nothing.
func NewMap(size wire.Size, owned []wire.GlobalIndex) (*Map, error) {
	m := &Map{
		size:  size,
		owned: make([]wire.GlobalIndex, len(owned)),
		local: make(map[wire.GlobalIndex]int, len(owned)),
	}
	copy(m.owned, owned)
	for i, g := range m.owned {
		if g < 0 || wire.Size(g) >= size {
			return nil, fmt.Errorf("global index %d outside index space [0, %d)", g, size)
		}
		if _, dup := m.local[g]; dup {
			return nil, fmt.Errorf("global index %d listed twice for this rank", g)
		}
		m.local[g] = i
	}
	return m, nil
}

// GlobalSize returns the size of the full index space.
func (m *Map) GlobalSize() wire.Size { return m.size }

// NumLocal returns the number of indices this rank owns.
func (m *Map) NumLocal() int { return len(m.owned) }

// LocalIndex returns the local position of a global index, or false if
// this rank does not own it.
func (m *Map) LocalIndex(g wire.GlobalIndex) (int, bool) {
	i, ok := m.local[g]
	return i, ok
}

// GlobalIndex returns the global index at a local position.
func (m *Map) GlobalIndex(local int) (wire.GlobalIndex, error) {
	if local < 0 || local >= len(m.owned) {
		return 0, &ErrRowOutOfRange{Row: local, Rows: len(m.owned)}
	}
	return m.owned[local], nil
}

// OwnedIndices returns a copy of this rank's global indices in local order.
func (m *Map) OwnedIndices() []wire.GlobalIndex {
	out := make([]wire.GlobalIndex, len(m.owned))
	copy(out, m.owned)
	return out
}
