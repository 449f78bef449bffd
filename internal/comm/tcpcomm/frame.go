package tcpcomm

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/klauspost/compress/zstd"

	"github.com/dreamware/taura/internal/comm"
)

// Frame operations.
const (
	opBroadcast byte = iota + 1
	opScatter
	opGather
	opSend
)

// Frame element types.
const (
	etByte byte = iota + 1
	etHandle
	etSize
	etGlobal
	etScalar
)

// Frame flags.
const flagZstd byte = 1 << 0

// compressThreshold is the payload size in bytes at which frames switch to
// zstd compression. Small control frames (tokens, handles, counts) always
// travel raw.
const compressThreshold = 1 << 10

// Handshake constants exchanged when a worker joins.
var handshakeMagic = [4]byte{'T', 'A', 'U', 'R'}

const handshakeVersion byte = 1

// frameHeaderLen is op + etype + flags + count + payload length.
const frameHeaderLen = 1 + 1 + 1 + 4 + 4

var opNames = map[byte]string{
	opBroadcast: "broadcast",
	opScatter:   "scatter",
	opGather:    "gather",
	opSend:      "send",
}

var etNames = map[byte]string{
	etByte:   "byte",
	etHandle: "handle",
	etSize:   "size",
	etGlobal: "global",
	etScalar: "scalar",
}

// elemSize returns the encoded width of one element of the given type.
func elemSize(etype byte) int {
	switch etype {
	case etByte:
		return 1
	case etHandle:
		return 4
	default:
		return 8
	}
}

func shapeName(op, etype byte, count int) string {
	return fmt.Sprintf("%s %s[%d]", opNames[op], etNames[etype], count)
}

// conn wraps one TCP connection with buffered I/O and a zstd codec pair.
// A conn is owned by a single goroutine.
type conn struct {
	nc  net.Conn
	r   *bufio.Reader
	w   *bufio.Writer
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newConn(nc net.Conn) (*conn, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &conn{
		nc:  nc,
		r:   bufio.NewReader(nc),
		w:   bufio.NewWriter(nc),
		enc: enc,
		dec: dec,
	}, nil
}

func (c *conn) close() error {
	c.enc.Close()
	c.dec.Close()
	return c.nc.Close()
}

// mapIOErr folds connection teardown into the session-fatal ErrClosed.
func mapIOErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("%w: %v", comm.ErrClosed, err)
	}
	return err
}

// writeFrame frames and sends count elements encoded in payload. The frame
// is flushed immediately; a primitive is never left half-sent in the
// buffer.
func (c *conn) writeFrame(op, etype byte, count int, payload []byte) error {
	var flags byte
	if len(payload) >= compressThreshold {
		flags |= flagZstd
		payload = c.enc.EncodeAll(payload, nil)
	}

	var hdr [frameHeaderLen]byte
	hdr[0] = op
	hdr[1] = etype
	hdr[2] = flags
	binary.LittleEndian.PutUint32(hdr[3:], uint32(count))
	binary.LittleEndian.PutUint32(hdr[7:], uint32(len(payload)))

	if _, err := c.w.Write(hdr[:]); err != nil {
		return mapIOErr(err)
	}
	if _, err := c.w.Write(payload); err != nil {
		return mapIOErr(err)
	}
	return mapIOErr(c.w.Flush())
}

// readFrame receives the next frame and checks it against the locally
// issued call. wantCount < 0 skips the count check for self-framing
// gathers, where the sender's count is authoritative.
func (c *conn) readFrame(wantOp, wantEtype byte, wantCount int) (int, []byte, error) {
	var hdr [frameHeaderLen]byte
	if _, err := io.ReadFull(c.r, hdr[:]); err != nil {
		return 0, nil, mapIOErr(err)
	}
	op, etype, flags := hdr[0], hdr[1], hdr[2]
	count := int(binary.LittleEndian.Uint32(hdr[3:]))
	payloadLen := int(binary.LittleEndian.Uint32(hdr[7:]))

	if op != wantOp || etype != wantEtype || (wantCount >= 0 && count != wantCount) {
		return 0, nil, &comm.ErrShapeMismatch{
			Want: shapeName(wantOp, wantEtype, wantCount),
			Got:  shapeName(op, etype, count),
		}
	}

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(c.r, payload); err != nil {
		return 0, nil, mapIOErr(err)
	}
	if flags&flagZstd != 0 {
		raw, err := c.dec.DecodeAll(payload, nil)
		if err != nil {
			return 0, nil, fmt.Errorf("tcpcomm: decompress frame: %w", err)
		}
		payload = raw
	}
	if len(payload) != count*elemSize(etype) {
		return 0, nil, fmt.Errorf("tcpcomm: frame %s carries %d payload bytes, want %d",
			shapeName(op, etype, count), len(payload), count*elemSize(etype))
	}
	return count, payload, nil
}
