package linalg

import (
	"github.com/dreamware/taura/internal/wire"
)

// Graph is this rank's portion of a distributed sparse graph: for each
// locally-owned row, the set of global column indices declared for it.
//
// A graph is built in two phases. While open, InsertRow declares column
// indices row by row. FillComplete then seals the structure; after sealing
// the pattern is immutable and the graph can back a Matrix. Construction
// order is enforced: inserts fail on a sealed graph, and matrix
// construction fails on an open one.
type Graph struct {
	dist   *Map
	rows   [][]wire.GlobalIndex
	sealed bool
}

// NewGraph creates an open graph over an index distribution, one row per
// locally-owned index.
func NewGraph(dist *Map) *Graph {
	return &Graph{
		dist: dist,
		rows: make([][]wire.GlobalIndex, dist.NumLocal()),
	}
}

// Map returns the index distribution backing the graph.
func (g *Graph) Map() *Map { return g.dist }

// InsertRow declares the column indices of a locally-owned row. Repeated
// inserts into the same row append. Fails once the graph is sealed.
func (g *Graph) InsertRow(localRow int, cols []wire.GlobalIndex) error {
	if g.sealed {
		return ErrFillComplete
	}
	if localRow < 0 || localRow >= len(g.rows) {
		return &ErrRowOutOfRange{Row: localRow, Rows: len(g.rows)}
	}
	g.rows[localRow] = append(g.rows[localRow], cols...)
	return nil
}

// FillComplete seals the graph's structure. Sealing twice is an error.
func (g *Graph) FillComplete() error {
	if g.sealed {
		return ErrFillComplete
	}
	g.sealed = true
	return nil
}

// FillCompleted reports whether the structure has been sealed.
func (g *Graph) FillCompleted() bool { return g.sealed }

// NumRows returns the number of locally-owned rows.
func (g *Graph) NumRows() int { return len(g.rows) }

// RowColumns returns a copy of one row's column indices.
func (g *Graph) RowColumns(localRow int) ([]wire.GlobalIndex, error) {
	if localRow < 0 || localRow >= len(g.rows) {
		return nil, &ErrRowOutOfRange{Row: localRow, Rows: len(g.rows)}
	}
	out := make([]wire.GlobalIndex, len(g.rows[localRow]))
	copy(out, g.rows[localRow])
	return out, nil
}

// NumEntries returns the total number of declared column indices across
// all local rows.
func (g *Graph) NumEntries() int {
	n := 0
	for _, row := range g.rows {
		n += len(row)
	}
	return n
}
