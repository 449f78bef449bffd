package linalg

import (
	"errors"
	"testing"

	"github.com/dreamware/taura/internal/wire"
)

func mustMap(t *testing.T, size wire.Size, owned []wire.GlobalIndex) *Map {
	t.Helper()
	m, err := NewMap(size, owned)
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	return m
}

// TestGraphTwoPhaseBuild verifies the insert-then-seal lifecycle.
func TestGraphTwoPhaseBuild(t *testing.T) {
	m := mustMap(t, 4, []wire.GlobalIndex{0, 1})
	g := NewGraph(m)

	if g.FillCompleted() {
		t.Fatal("new graph should be open")
	}

	if err := g.InsertRow(0, []wire.GlobalIndex{0, 1}); err != nil {
		t.Fatalf("InsertRow: %v", err)
	}
	if err := g.InsertRow(1, []wire.GlobalIndex{1, 2}); err != nil {
		t.Fatalf("InsertRow: %v", err)
	}

	if err := g.FillComplete(); err != nil {
		t.Fatalf("FillComplete: %v", err)
	}
	if !g.FillCompleted() {
		t.Fatal("graph should be sealed")
	}
	if g.NumEntries() != 4 {
		t.Errorf("NumEntries = %d, want 4", g.NumEntries())
	}

	cols, err := g.RowColumns(1)
	if err != nil {
		t.Fatalf("RowColumns: %v", err)
	}
	if len(cols) != 2 || cols[0] != 1 || cols[1] != 2 {
		t.Errorf("row 1 columns = %v, want [1 2]", cols)
	}
}

// TestGraphSealedIsImmutable verifies inserts and re-seals fail after
// FillComplete.
func TestGraphSealedIsImmutable(t *testing.T) {
	m := mustMap(t, 2, []wire.GlobalIndex{0})
	g := NewGraph(m)

	if err := g.FillComplete(); err != nil {
		t.Fatalf("FillComplete: %v", err)
	}
	if err := g.InsertRow(0, []wire.GlobalIndex{0}); !errors.Is(err, ErrFillComplete) {
		t.Errorf("InsertRow after seal: got %v, want ErrFillComplete", err)
	}
	if err := g.FillComplete(); !errors.Is(err, ErrFillComplete) {
		t.Errorf("second FillComplete: got %v, want ErrFillComplete", err)
	}
}

// TestGraphEmptyRows verifies rows with zero declared columns are valid.
func TestGraphEmptyRows(t *testing.T) {
	m := mustMap(t, 4, []wire.GlobalIndex{0, 1})
	g := NewGraph(m)

	if err := g.InsertRow(0, nil); err != nil {
		t.Fatalf("InsertRow with no columns: %v", err)
	}
	if err := g.FillComplete(); err != nil {
		t.Fatalf("FillComplete: %v", err)
	}
	if g.NumEntries() != 0 {
		t.Errorf("NumEntries = %d, want 0", g.NumEntries())
	}
}

// TestGraphRowRange verifies out-of-range rows are rejected.
func TestGraphRowRange(t *testing.T) {
	m := mustMap(t, 2, []wire.GlobalIndex{0})
	g := NewGraph(m)

	var oor *ErrRowOutOfRange
	if err := g.InsertRow(1, nil); !errors.As(err, &oor) {
		t.Errorf("InsertRow(1): got %v, want ErrRowOutOfRange", err)
	}
	if err := g.InsertRow(-1, nil); !errors.As(err, &oor) {
		t.Errorf("InsertRow(-1): got %v, want ErrRowOutOfRange", err)
	}
}

// TestNewMatrixRequiresSealedGraph verifies the construction precondition:
// a matrix can only be built over a fill-complete pattern.
func TestNewMatrixRequiresSealedGraph(t *testing.T) {
	m := mustMap(t, 4, []wire.GlobalIndex{0, 1})
	g := NewGraph(m)
	if err := g.InsertRow(0, []wire.GlobalIndex{0, 1}); err != nil {
		t.Fatalf("InsertRow: %v", err)
	}

	if _, err := NewMatrix(g); !errors.Is(err, ErrNotFillComplete) {
		t.Fatalf("NewMatrix on open graph: got %v, want ErrNotFillComplete", err)
	}

	if err := g.FillComplete(); err != nil {
		t.Fatalf("FillComplete: %v", err)
	}
	mat, err := NewMatrix(g)
	if err != nil {
		t.Fatalf("NewMatrix: %v", err)
	}

	// The pattern is mirrored and every entry starts at zero.
	if mat.NumRows() != 2 {
		t.Errorf("NumRows = %d, want 2", mat.NumRows())
	}
	row, err := mat.RowValues(0)
	if err != nil {
		t.Fatalf("RowValues: %v", err)
	}
	if len(row) != 2 {
		t.Fatalf("row 0 has %d entries, want 2", len(row))
	}
	for i, v := range row {
		if v != 0 {
			t.Errorf("row 0 entry %d = %v, want 0", i, v)
		}
	}
}
