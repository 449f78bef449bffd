package comm

import (
	"github.com/dreamware/taura/internal/wire"
)

// Comm is a worker's view of the group channel. All methods block until the
// root (and, for broadcasts, the rest of the group) has issued the matching
// call. A Comm is owned by a single goroutine; methods must not be called
// concurrently.
//
// Broadcast* receives one value sent identically to all ranks.
// Scatter* receives this rank's chunk of a root-partitioned transfer; the
// variable-length forms take the local element count, which the caller must
// already know (from an earlier count phase or from local state).
// Gather* contributes this rank's data to a root-assembled result; workers
// never see the assembled whole.
// Recv* receives a point-to-point message addressed to this rank only; no
// other rank participates.
type Comm interface {
	// Rank returns this worker's position in the group, 0 <= Rank < Size.
	Rank() int
	// Size returns the number of workers in the group.
	Size() int

	BroadcastByte() (byte, error)
	BroadcastHandle() (wire.Handle, error)
	BroadcastSize() (wire.Size, error)

	// ScatterSize receives this rank's single size from a fixed scatter of
	// one size per rank.
	ScatterSize() (wire.Size, error)
	// ScatterSizes receives this rank's n sizes from a variable scatter.
	ScatterSizes(n int) ([]wire.Size, error)
	// ScatterGlobals receives this rank's n global indices from a variable
	// scatter.
	ScatterGlobals(n int) ([]wire.GlobalIndex, error)

	GatherHandle(h wire.Handle) error
	// GatherScalars contributes this rank's local values to a variable
	// gather; ranks may contribute different lengths, zero included.
	GatherScalars(values []wire.Scalar) error

	RecvHandle() (wire.Handle, error)
	RecvSize() (wire.Size, error)
	RecvGlobals(n int) ([]wire.GlobalIndex, error)
	RecvScalars(n int) ([]wire.Scalar, error)

	// Close releases the channel. After Close no further calls may be made.
	Close() error
}

// Root is the controller's send half of the group channel. Every method is
// the mirror image of the corresponding Comm method and must be issued in
// the same order the ranks issue theirs. A Root is owned by a single
// goroutine.
//
// Per-rank arguments are indexed by rank and must have exactly Size
// elements.
type Root interface {
	// Size returns the number of workers in the group.
	Size() int

	BroadcastByte(b byte) error
	BroadcastHandle(h wire.Handle) error
	BroadcastSize(s wire.Size) error

	ScatterSize(perRank []wire.Size) error
	ScatterSizes(perRank [][]wire.Size) error
	ScatterGlobals(perRank [][]wire.GlobalIndex) error

	// GatherHandles collects one handle per rank, in rank order.
	GatherHandles() ([]wire.Handle, error)
	// GatherScalars collects each rank's contribution, in rank order.
	// Lengths may differ per rank.
	GatherScalars() ([][]wire.Scalar, error)

	SendHandle(rank int, h wire.Handle) error
	SendSize(rank int, s wire.Size) error
	SendGlobals(rank int, vals []wire.GlobalIndex) error
	SendScalars(rank int, vals []wire.Scalar) error

	// Close releases the channel on the controller side.
	Close() error
}

// ScatterVarGlobals performs a complete two-phase variable scatter on the
// worker side: first the fixed count phase (one size per rank), then the
// payload phase sized by the received count. Handlers should prefer this
// composite over issuing the phases separately so the phases can never be
// reordered or split.
//
// A count of zero is valid: the payload phase still takes place and
// delivers an empty chunk to this rank.
func ScatterVarGlobals(c Comm) ([]wire.GlobalIndex, error) {
	n, err := c.ScatterSize()
	if err != nil {
		return nil, err
	}
	return c.ScatterGlobals(int(n))
}

// RootScatterVarGlobals is the controller-side mirror of ScatterVarGlobals:
// it scatters each rank's element count and then the payloads themselves.
func RootScatterVarGlobals(r Root, perRank [][]wire.GlobalIndex) error {
	counts := make([]wire.Size, len(perRank))
	for rank, vals := range perRank {
		counts[rank] = wire.Size(len(vals))
	}
	if err := r.ScatterSize(counts); err != nil {
		return err
	}
	return r.ScatterGlobals(perRank)
}
