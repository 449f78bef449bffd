package wire

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Token is a one-byte command identifier broadcast by the controller at the
// top of every protocol exchange. The numbering is part of the wire contract
// and must never change; new commands may only be appended before NumTokens.
type Token uint8

const (
	// TokenNewMatrix builds a zero-valued sparse matrix over a sealed graph.
	TokenNewMatrix Token = iota
	// TokenNewVector builds a zero-valued vector over an index distribution.
	TokenNewVector
	// TokenAddVectorEntries accumulates (index, value) pairs into one rank's
	// slice of a vector.
	TokenAddVectorEntries
	// TokenGetVector gathers every rank's local vector entries to the
	// controller.
	TokenGetVector
	// TokenNewMap builds an index distribution from per-rank index lists.
	TokenNewMap
	// TokenNewGraph builds and seals a sparse graph over an index
	// distribution.
	TokenNewGraph

	// NumTokens is the number of valid command tokens. Broadcasting any byte
	// >= NumTokens terminates the worker event loop.
	NumTokens
)

// tokenNames is indexed by Token and ordered identically to the constants
// above.
var tokenNames = [NumTokens]string{
	TokenNewMatrix:        "new-matrix",
	TokenNewVector:        "new-vector",
	TokenAddVectorEntries: "add-vector-entries",
	TokenGetVector:        "get-vector",
	TokenNewMap:           "new-map",
	TokenNewGraph:         "new-graph",
}

// String returns the canonical command name, or a quit marker for any value
// outside the valid range.
func (t Token) String() string {
	if t >= NumTokens {
		return fmt.Sprintf("quit(%d)", uint8(t))
	}
	return tokenNames[t]
}

// Valid reports whether the token selects a command handler.
func (t Token) Valid() bool {
	return t < NumTokens
}

// TokenNames returns the ordered list of command names. The position of a
// name in the slice is its token value.
func TokenNames() []string {
	return tokenNames[:]
}

// TokenByName resolves a canonical command name back to its token value.
func TokenByName(name string) (Token, bool) {
	idx := slices.Index(tokenNames[:], name)
	if idx < 0 {
		return NumTokens, false
	}
	return Token(idx), true
}
