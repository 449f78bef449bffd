package linalg

import (
	"github.com/dreamware/taura/internal/wire"
)

// Matrix is this rank's slice of a distributed sparse matrix. Its nonzero
// pattern is fixed at construction from a sealed Graph; every stored entry
// starts at zero. Numeric entry population is not part of this
// repository's command set, so the value storage exists to give the
// pattern a concrete, addressable backing.
type Matrix struct {
	pattern *Graph
	values  [][]wire.Scalar
}

// NewMatrix builds a zero-valued matrix over a sealed graph's pattern.
// Fails with ErrNotFillComplete if the graph is still open.
func NewMatrix(pattern *Graph) (*Matrix, error) {
	if !pattern.FillCompleted() {
		return nil, ErrNotFillComplete
	}
	values := make([][]wire.Scalar, pattern.NumRows())
	for i := range values {
		cols, err := pattern.RowColumns(i)
		if err != nil {
			return nil, err
		}
		values[i] = make([]wire.Scalar, len(cols))
	}
	return &Matrix{pattern: pattern, values: values}, nil
}

// Graph returns the sealed pattern backing the matrix.
func (m *Matrix) Graph() *Graph { return m.pattern }

// NumRows returns the number of locally-owned rows.
func (m *Matrix) NumRows() int { return len(m.values) }

// RowValues returns a copy of one row's stored entries, ordered like the
// pattern's column indices for that row.
func (m *Matrix) RowValues(localRow int) ([]wire.Scalar, error) {
	if localRow < 0 || localRow >= len(m.values) {
		return nil, &ErrRowOutOfRange{Row: localRow, Rows: len(m.values)}
	}
	out := make([]wire.Scalar, len(m.values[localRow]))
	copy(out, m.values[localRow])
	return out, nil
}
