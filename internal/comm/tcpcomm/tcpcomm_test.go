package tcpcomm

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dreamware/taura/internal/comm"
	"github.com/dreamware/taura/internal/wire"
)

// startGroup brings up a root on a loopback listener and n dialled-in
// workers, then runs the given functions against them.
func startGroup(t *testing.T, n int, rootFn func(*Root) error, workerFn func(*Comm) error) {
	t.Helper()

	// Reserve a port, then release it for Listen. Small race window but
	// fine on loopback in tests.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	var g errgroup.Group
	g.Go(func() error {
		root, err := Listen(addr, n)
		if err != nil {
			return err
		}
		defer root.Close()
		return rootFn(root)
	})
	for i := 0; i < n; i++ {
		g.Go(func() error {
			// The root's listener may come up after the first dial attempt.
			var c *Comm
			var err error
			for attempt := 0; attempt < 50; attempt++ {
				c, err = Dial(addr)
				if err == nil {
					break
				}
				time.Sleep(20 * time.Millisecond)
			}
			if err != nil {
				return err
			}
			defer c.Close()
			return workerFn(c)
		})
	}
	require.NoError(t, g.Wait())
}

// TestHandshake verifies rank assignment in connection order and size
// announcement.
func TestHandshake(t *testing.T) {
	seen := make(chan int, 3)
	startGroup(t, 3,
		func(r *Root) error {
			assert.Equal(t, 3, r.Size())
			return nil
		},
		func(c *Comm) error {
			assert.Equal(t, 3, c.Size())
			seen <- c.Rank()
			return nil
		})
	close(seen)

	ranks := map[int]bool{}
	for r := range seen {
		ranks[r] = true
	}
	assert.Equal(t, map[int]bool{0: true, 1: true, 2: true}, ranks)
}

// TestPrimitivesRoundTrip exercises one full command-like exchange over
// real sockets: broadcast, two-phase scatter, point-to-point, and gather.
func TestPrimitivesRoundTrip(t *testing.T) {
	perRank := [][]wire.GlobalIndex{
		{0, 1},
		{},
	}

	startGroup(t, 2,
		func(r *Root) error {
			if err := r.BroadcastByte(byte(wire.TokenNewMap)); err != nil {
				return err
			}
			if err := r.BroadcastSize(4); err != nil {
				return err
			}
			if err := comm.RootScatterVarGlobals(r, perRank); err != nil {
				return err
			}
			if err := r.BroadcastSize(0); err != nil { // target rank
				return err
			}
			if err := r.SendScalars(0, []wire.Scalar{2.5}); err != nil {
				return err
			}
			handles, err := r.GatherHandles()
			if err != nil {
				return err
			}
			assert.Equal(t, []wire.Handle{0, 0}, handles)

			vals, err := r.GatherScalars()
			if err != nil {
				return err
			}
			assert.Equal(t, [][]wire.Scalar{{2.5}, {}}, vals)
			return nil
		},
		func(c *Comm) error {
			tok, err := c.BroadcastByte()
			if err != nil {
				return err
			}
			assert.Equal(t, byte(wire.TokenNewMap), tok)

			size, err := c.BroadcastSize()
			if err != nil {
				return err
			}
			assert.Equal(t, wire.Size(4), size)

			owned, err := comm.ScatterVarGlobals(c)
			if err != nil {
				return err
			}
			assert.Equal(t, perRank[c.Rank()], owned)

			target, err := c.BroadcastSize()
			if err != nil {
				return err
			}
			var contrib []wire.Scalar
			if target == wire.Size(c.Rank()) {
				contrib, err = c.RecvScalars(1)
				if err != nil {
					return err
				}
			}
			if err := c.GatherHandle(0); err != nil {
				return err
			}
			return c.GatherScalars(contrib)
		})
}

// TestLargePayloadCompression pushes a payload well past the compression
// threshold to exercise the zstd path end to end.
func TestLargePayloadCompression(t *testing.T) {
	big := make([]wire.GlobalIndex, 100000)
	for i := range big {
		big[i] = wire.GlobalIndex(i % 97)
	}

	startGroup(t, 1,
		func(r *Root) error {
			return r.ScatterGlobals([][]wire.GlobalIndex{big})
		},
		func(c *Comm) error {
			got, err := c.ScatterGlobals(len(big))
			if err != nil {
				return err
			}
			assert.Equal(t, big, got)
			return nil
		})
}

// TestShapeMismatch verifies a diverged call sequence is detected from the
// frame header.
func TestShapeMismatch(t *testing.T) {
	startGroup(t, 1,
		func(r *Root) error {
			return r.BroadcastHandle(1)
		},
		func(c *Comm) error {
			_, err := c.BroadcastSize()
			var mismatch *comm.ErrShapeMismatch
			assert.ErrorAs(t, err, &mismatch)
			return nil
		})
}

// TestPeerDisconnect verifies a vanished root surfaces as ErrClosed, the
// session-fatal transport failure.
func TestPeerDisconnect(t *testing.T) {
	startGroup(t, 1,
		func(r *Root) error {
			return r.Close()
		},
		func(c *Comm) error {
			_, err := c.BroadcastByte()
			assert.ErrorIs(t, err, comm.ErrClosed)
			return nil
		})
}
