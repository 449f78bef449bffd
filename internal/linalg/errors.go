package linalg

import (
	"errors"
	"fmt"

	"github.com/dreamware/taura/internal/wire"
)

// ErrNotFillComplete is returned when an operation requires a sealed graph
// but the graph's fill phase has not been completed.
var ErrNotFillComplete = errors.New("graph is not fill-complete")

// ErrFillComplete is returned when a mutation is attempted on a graph that
// has already been sealed.
var ErrFillComplete = errors.New("graph is already fill-complete")

// ErrIndexNotOwned indicates a global index that is not part of this rank's
// portion of the index distribution.
type ErrIndexNotOwned struct {
	Index wire.GlobalIndex
}

func (e *ErrIndexNotOwned) Error() string {
	return fmt.Sprintf("global index %d is not owned by this rank", e.Index)
}

// ErrRowOutOfRange indicates a local row number outside [0, NumLocal).
type ErrRowOutOfRange struct {
	Row  int
	Rows int
}

func (e *ErrRowOutOfRange) Error() string {
	return fmt.Sprintf("local row %d out of range [0, %d)", e.Row, e.Rows)
}
