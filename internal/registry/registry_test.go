package registry

import (
	"errors"
	"testing"

	"github.com/dreamware/taura/internal/linalg"
	"github.com/dreamware/taura/internal/wire"
)

func newMap(t *testing.T) *linalg.Map {
	t.Helper()
	m, err := linalg.NewMap(4, []wire.GlobalIndex{0, 1})
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	return m
}

// TestHandleSequence verifies the append-only numbering contract: the Nth
// registration in a table gets handle N-1, independently per table.
func TestHandleSequence(t *testing.T) {
	r := New()
	m := newMap(t)

	for want := 0; want < 5; want++ {
		if h := r.AddMap(m); h != wire.Handle(want) {
			t.Fatalf("map registration %d returned handle %d", want+1, h)
		}
	}

	// Tables are independent handle spaces.
	if h := r.AddVector(linalg.NewVector(m)); h != 0 {
		t.Errorf("first vector handle = %d, want 0", h)
	}
	if h := r.AddGraph(linalg.NewGraph(m)); h != 0 {
		t.Errorf("first graph handle = %d, want 0", h)
	}
}

// TestResolve verifies resolution returns the registered object.
func TestResolve(t *testing.T) {
	r := New()
	m := newMap(t)
	h := r.AddMap(m)

	got, err := r.Map(h)
	if err != nil {
		t.Fatalf("Map(%d): %v", h, err)
	}
	if got != m {
		t.Error("resolved map is not the registered instance")
	}
}

// TestResolveInvalidHandle verifies out-of-bounds handles fail with
// ErrInvalidHandle for every table.
func TestResolveInvalidHandle(t *testing.T) {
	r := New()

	tests := []struct {
		name    string
		resolve func(wire.Handle) error
		kind    Kind
	}{
		{"map", func(h wire.Handle) error { _, err := r.Map(h); return err }, KindMap},
		{"vector", func(h wire.Handle) error { _, err := r.Vector(h); return err }, KindVector},
		{"graph", func(h wire.Handle) error { _, err := r.Graph(h); return err }, KindGraph},
		{"matrix", func(h wire.Handle) error { _, err := r.Matrix(h); return err }, KindMatrix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, h := range []wire.Handle{0, 1, -1} {
				err := tt.resolve(h)
				var invalid *ErrInvalidHandle
				if !errors.As(err, &invalid) {
					t.Fatalf("resolve(%d): got %v, want ErrInvalidHandle", h, err)
				}
				if invalid.Kind != tt.kind {
					t.Errorf("error kind = %s, want %s", invalid.Kind, tt.kind)
				}
			}
		})
	}
}

// TestSealedGraph verifies the fill-complete precondition is checked at
// resolution time: a handle to an open graph is an invalid handle.
func TestSealedGraph(t *testing.T) {
	r := New()
	m := newMap(t)

	g := linalg.NewGraph(m)
	h := r.AddGraph(g)

	_, err := r.SealedGraph(h)
	var invalid *ErrInvalidHandle
	if !errors.As(err, &invalid) {
		t.Fatalf("SealedGraph on open graph: got %v, want ErrInvalidHandle", err)
	}
	if !errors.Is(err, linalg.ErrNotFillComplete) {
		t.Errorf("error should wrap ErrNotFillComplete, got %v", err)
	}

	if err := g.FillComplete(); err != nil {
		t.Fatalf("FillComplete: %v", err)
	}
	if _, err := r.SealedGraph(h); err != nil {
		t.Errorf("SealedGraph on sealed graph: %v", err)
	}
}

// TestCounts verifies the per-table lengths used by logging.
func TestCounts(t *testing.T) {
	r := New()
	m := newMap(t)
	r.AddMap(m)
	r.AddMap(m)
	r.AddVector(linalg.NewVector(m))

	counts := r.Counts()
	if counts[KindMap] != 2 || counts[KindVector] != 1 || counts[KindGraph] != 0 || counts[KindMatrix] != 0 {
		t.Errorf("Counts = %v", counts)
	}
}
