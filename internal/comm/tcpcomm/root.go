package tcpcomm

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/dreamware/taura/internal/comm"
	"github.com/dreamware/taura/internal/wire"
)

// Root is the controller's end of a TCP session: one connection per worker,
// indexed by rank. It implements comm.Root.
type Root struct {
	conns []*conn
}

var _ comm.Root = (*Root)(nil)

// Listen binds addr, waits for exactly n workers to dial in, and completes
// the handshake with each. Rank is assigned in connection order. The
// listener is closed once the group is complete; late arrivals are turned
// away by the OS.
func Listen(addr string, n int) (*Root, error) {
	if n <= 0 {
		return nil, fmt.Errorf("tcpcomm: invalid group size %d", n)
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("tcpcomm: listen %s: %w", addr, err)
	}
	defer ln.Close()

	r := &Root{conns: make([]*conn, 0, n)}
	for rank := 0; rank < n; rank++ {
		nc, err := ln.Accept()
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("tcpcomm: accept rank %d: %w", rank, mapIOErr(err))
		}
		c, err := newConn(nc)
		if err != nil {
			nc.Close()
			r.Close()
			return nil, err
		}

		var hs [4 + 1 + 4 + 4]byte
		copy(hs[:4], handshakeMagic[:])
		hs[4] = handshakeVersion
		binary.LittleEndian.PutUint32(hs[5:], uint32(rank))
		binary.LittleEndian.PutUint32(hs[9:], uint32(n))
		if _, err := c.w.Write(hs[:]); err != nil {
			c.close()
			r.Close()
			return nil, fmt.Errorf("tcpcomm: handshake rank %d: %w", rank, mapIOErr(err))
		}
		if err := c.w.Flush(); err != nil {
			c.close()
			r.Close()
			return nil, fmt.Errorf("tcpcomm: handshake rank %d: %w", rank, mapIOErr(err))
		}
		r.conns = append(r.conns, c)
	}
	return r, nil
}

// Size returns the number of workers in the group.
func (r *Root) Size() int { return len(r.conns) }

// broadcast writes the same frame to every rank in rank order.
func (r *Root) broadcast(op, etype byte, count int, payload []byte) error {
	for rank := range r.conns {
		if err := r.conns[rank].writeFrame(op, etype, count, payload); err != nil {
			return err
		}
	}
	return nil
}

func (r *Root) BroadcastByte(b byte) error {
	return r.broadcast(opBroadcast, etByte, 1, []byte{b})
}

func (r *Root) BroadcastHandle(h wire.Handle) error {
	return r.broadcast(opBroadcast, etHandle, 1, wire.AppendHandle(nil, h))
}

func (r *Root) BroadcastSize(s wire.Size) error {
	return r.broadcast(opBroadcast, etSize, 1, wire.AppendSizes(nil, []wire.Size{s}))
}

func (r *Root) ScatterSize(perRank []wire.Size) error {
	if len(perRank) != r.Size() {
		return fmt.Errorf("tcpcomm: scatter size has %d chunks for %d ranks", len(perRank), r.Size())
	}
	for rank, s := range perRank {
		if err := r.conns[rank].writeFrame(opScatter, etSize, 1, wire.AppendSizes(nil, []wire.Size{s})); err != nil {
			return err
		}
	}
	return nil
}

func (r *Root) ScatterSizes(perRank [][]wire.Size) error {
	if len(perRank) != r.Size() {
		return fmt.Errorf("tcpcomm: scatter sizes has %d chunks for %d ranks", len(perRank), r.Size())
	}
	for rank, vals := range perRank {
		if err := r.conns[rank].writeFrame(opScatter, etSize, len(vals), wire.AppendSizes(nil, vals)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Root) ScatterGlobals(perRank [][]wire.GlobalIndex) error {
	if len(perRank) != r.Size() {
		return fmt.Errorf("tcpcomm: scatter globals has %d chunks for %d ranks", len(perRank), r.Size())
	}
	for rank, vals := range perRank {
		if err := r.conns[rank].writeFrame(opScatter, etGlobal, len(vals), wire.AppendGlobals(nil, vals)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Root) GatherHandles() ([]wire.Handle, error) {
	out := make([]wire.Handle, r.Size())
	for rank := range r.conns {
		_, payload, err := r.conns[rank].readFrame(opGather, etHandle, 1)
		if err != nil {
			return nil, err
		}
		h, err := wire.DecodeHandle(payload)
		if err != nil {
			return nil, err
		}
		out[rank] = h
	}
	return out, nil
}

func (r *Root) GatherScalars() ([][]wire.Scalar, error) {
	out := make([][]wire.Scalar, r.Size())
	for rank := range r.conns {
		// The contributing rank's count is authoritative in a variable
		// gather.
		count, payload, err := r.conns[rank].readFrame(opGather, etScalar, -1)
		if err != nil {
			return nil, err
		}
		vals, err := wire.DecodeScalars(payload, count)
		if err != nil {
			return nil, err
		}
		out[rank] = vals
	}
	return out, nil
}

func (r *Root) SendHandle(rank int, h wire.Handle) error {
	return r.conns[rank].writeFrame(opSend, etHandle, 1, wire.AppendHandle(nil, h))
}

func (r *Root) SendSize(rank int, s wire.Size) error {
	return r.conns[rank].writeFrame(opSend, etSize, 1, wire.AppendSizes(nil, []wire.Size{s}))
}

func (r *Root) SendGlobals(rank int, vals []wire.GlobalIndex) error {
	return r.conns[rank].writeFrame(opSend, etGlobal, len(vals), wire.AppendGlobals(nil, vals))
}

func (r *Root) SendScalars(rank int, vals []wire.Scalar) error {
	return r.conns[rank].writeFrame(opSend, etScalar, len(vals), wire.AppendScalars(nil, vals))
}

// Close disconnects every worker.
func (r *Root) Close() error {
	var firstErr error
	for _, c := range r.conns {
		if c == nil {
			continue
		}
		if err := c.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
