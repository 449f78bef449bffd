package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/taura/internal/comm/inproc"
	"github.com/dreamware/taura/internal/wire"
)

func TestSameHandle(t *testing.T) {
	h, err := sameHandle([]wire.Handle{2, 2, 2})
	require.NoError(t, err)
	assert.Equal(t, wire.Handle(2), h)

	_, err = sameHandle([]wire.Handle{2, 3, 2})
	assert.ErrorContains(t, err, "disagree")
}

// TestArgumentValidation covers the checks that fail before anything goes
// on the wire. The hub is never touched, so no worker goroutines exist.
func TestArgumentValidation(t *testing.T) {
	r := inproc.NewHub(2).Root()

	_, err := NewMap(r, 4, [][]wire.GlobalIndex{{0}})
	assert.ErrorContains(t, err, "2 ranks")

	_, err = NewGraph(r, 0, [][]wire.Size{{1}}, [][]wire.GlobalIndex{{0}, {1}})
	assert.ErrorContains(t, err, "2 ranks")

	err = AddVectorEntries(r, 0, 0, []wire.GlobalIndex{1, 2}, []wire.Scalar{5})
	assert.ErrorContains(t, err, "2 indices for 1 values")

	err = AddVectorEntries(r, 7, 0, nil, nil)
	assert.ErrorContains(t, err, "out of range")
}
