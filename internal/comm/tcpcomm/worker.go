package tcpcomm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"net"

	"github.com/dreamware/taura/internal/comm"
	"github.com/dreamware/taura/internal/wire"
)

// Comm is a worker's end of a TCP session. It implements comm.Comm.
type Comm struct {
	conn *conn
	rank int
	size int
}

var _ comm.Comm = (*Comm)(nil)

// Dial joins the group channel listening at addr. The root assigns this
// worker its rank during the handshake; ranks are handed out in connection
// order. Dial blocks until the handshake completes.
func Dial(addr string) (*Comm, error) {
	nc, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("tcpcomm: dial %s: %w", addr, err)
	}
	c, err := newConn(nc)
	if err != nil {
		nc.Close()
		return nil, err
	}

	// Handshake: magic, version, rank, size.
	var hs [4 + 1 + 4 + 4]byte
	if _, err := io.ReadFull(c.r, hs[:]); err != nil {
		c.close()
		return nil, fmt.Errorf("tcpcomm: handshake: %w", mapIOErr(err))
	}
	if !bytes.Equal(hs[:4], handshakeMagic[:]) {
		c.close()
		return nil, fmt.Errorf("tcpcomm: handshake: bad magic %q", hs[:4])
	}
	if hs[4] != handshakeVersion {
		c.close()
		return nil, fmt.Errorf("tcpcomm: handshake: version %d, want %d", hs[4], handshakeVersion)
	}
	rank := int(binary.LittleEndian.Uint32(hs[5:]))
	size := int(binary.LittleEndian.Uint32(hs[9:]))
	if size <= 0 || rank < 0 || rank >= size {
		c.close()
		return nil, fmt.Errorf("tcpcomm: handshake: rank %d of %d out of range", rank, size)
	}

	return &Comm{conn: c, rank: rank, size: size}, nil
}

// Rank returns the rank assigned during the handshake.
func (c *Comm) Rank() int { return c.rank }

// Size returns the group size announced during the handshake.
func (c *Comm) Size() int { return c.size }

func (c *Comm) BroadcastByte() (byte, error) {
	_, payload, err := c.conn.readFrame(opBroadcast, etByte, 1)
	if err != nil {
		return 0, err
	}
	return payload[0], nil
}

func (c *Comm) BroadcastHandle() (wire.Handle, error) {
	_, payload, err := c.conn.readFrame(opBroadcast, etHandle, 1)
	if err != nil {
		return 0, err
	}
	return wire.DecodeHandle(payload)
}

func (c *Comm) BroadcastSize() (wire.Size, error) {
	_, payload, err := c.conn.readFrame(opBroadcast, etSize, 1)
	if err != nil {
		return 0, err
	}
	vals, err := wire.DecodeSizes(payload, 1)
	if err != nil {
		return 0, err
	}
	return vals[0], nil
}

func (c *Comm) ScatterSize() (wire.Size, error) {
	_, payload, err := c.conn.readFrame(opScatter, etSize, 1)
	if err != nil {
		return 0, err
	}
	vals, err := wire.DecodeSizes(payload, 1)
	if err != nil {
		return 0, err
	}
	return vals[0], nil
}

func (c *Comm) ScatterSizes(n int) ([]wire.Size, error) {
	_, payload, err := c.conn.readFrame(opScatter, etSize, n)
	if err != nil {
		return nil, err
	}
	return wire.DecodeSizes(payload, n)
}

func (c *Comm) ScatterGlobals(n int) ([]wire.GlobalIndex, error) {
	_, payload, err := c.conn.readFrame(opScatter, etGlobal, n)
	if err != nil {
		return nil, err
	}
	return wire.DecodeGlobals(payload, n)
}

func (c *Comm) GatherHandle(h wire.Handle) error {
	return c.conn.writeFrame(opGather, etHandle, 1, wire.AppendHandle(nil, h))
}

func (c *Comm) GatherScalars(values []wire.Scalar) error {
	return c.conn.writeFrame(opGather, etScalar, len(values), wire.AppendScalars(nil, values))
}

func (c *Comm) RecvHandle() (wire.Handle, error) {
	_, payload, err := c.conn.readFrame(opSend, etHandle, 1)
	if err != nil {
		return 0, err
	}
	return wire.DecodeHandle(payload)
}

func (c *Comm) RecvSize() (wire.Size, error) {
	_, payload, err := c.conn.readFrame(opSend, etSize, 1)
	if err != nil {
		return 0, err
	}
	vals, err := wire.DecodeSizes(payload, 1)
	if err != nil {
		return 0, err
	}
	return vals[0], nil
}

func (c *Comm) RecvGlobals(n int) ([]wire.GlobalIndex, error) {
	_, payload, err := c.conn.readFrame(opSend, etGlobal, n)
	if err != nil {
		return nil, err
	}
	return wire.DecodeGlobals(payload, n)
}

func (c *Comm) RecvScalars(n int) ([]wire.Scalar, error) {
	_, payload, err := c.conn.readFrame(opSend, etScalar, n)
	if err != nil {
		return nil, err
	}
	return wire.DecodeScalars(payload, n)
}

// Close disconnects from the group.
func (c *Comm) Close() error {
	return c.conn.close()
}
