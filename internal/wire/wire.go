package wire

// Handle identifies a registered distributed object within one of the four
// handle tables. Handles are small non-negative integers assigned in strict
// creation order; the Nth object registered in a table gets handle N-1.
// Handles are never reused or freed.
type Handle int32

// LocalIndex addresses an entry in a rank's local slice of a distributed
// object.
type LocalIndex int32

// GlobalIndex addresses an entry in the global index space of a distributed
// object. The index base is 0.
type GlobalIndex int64

// Size carries counts and sizes on the wire.
type Size uint64

// Scalar is the numeric entry type of vectors and matrices.
type Scalar float64

// Bit widths of the wire value types, as reported by the info command.
const (
	HandleBits      = 32
	LocalIndexBits  = 32
	GlobalIndexBits = 64
	SizeBits        = 64
	ScalarBits      = 64
)
