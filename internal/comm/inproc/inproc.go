package inproc

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dreamware/taura/internal/comm"
	"github.com/dreamware/taura/internal/wire"
)

// msg is one transfer slot on a rank's channel. op and etype describe the
// primitive that produced the message so the receiving side can detect a
// diverged call sequence.
type msg struct {
	op    string
	etype string
	value any
}

func (m msg) shape() string {
	return m.op + " " + m.etype
}

// Hub owns the channels connecting one root endpoint to n rank endpoints.
type Hub struct {
	root  *Root
	ranks []*Endpoint
}

// NewHub creates a hub for n ranks. n must be positive.
func NewHub(n int) *Hub {
	if n <= 0 {
		panic(fmt.Sprintf("inproc: invalid group size %d", n))
	}
	h := &Hub{ranks: make([]*Endpoint, n)}
	for i := range h.ranks {
		h.ranks[i] = &Endpoint{
			rank:     i,
			size:     n,
			fromRoot: make(chan msg),
			toRoot:   make(chan msg),
		}
	}
	h.root = &Root{ranks: h.ranks}
	return h
}

// Root returns the controller-side endpoint.
func (h *Hub) Root() *Root {
	return h.root
}

// Comm returns the endpoint for the given rank.
func (h *Hub) Comm(rank int) *Endpoint {
	return h.ranks[rank]
}

// Run drives a complete session: it spawns one goroutine per rank running
// worker and one goroutine running root, then waits for all of them. The
// first error cancels nothing (collectives are not cancellable) but is
// returned once the group unwinds.
func Run(n int, root func(r *Root) error, worker func(c *Endpoint) error) error {
	hub := NewHub(n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		c := hub.Comm(i)
		g.Go(func() error { return worker(c) })
	}
	g.Go(func() error { return root(hub.Root()) })
	return g.Wait()
}

// Endpoint is one rank's view of the hub. It implements comm.Comm.
type Endpoint struct {
	fromRoot chan msg
	toRoot   chan msg
	rank     int
	size     int
	closed   bool
}

var _ comm.Comm = (*Endpoint)(nil)

// Rank returns this endpoint's rank.
func (c *Endpoint) Rank() int { return c.rank }

// Size returns the number of ranks in the group.
func (c *Endpoint) Size() int { return c.size }

// recv pulls the next root message and checks it against the locally
// issued call.
func (c *Endpoint) recv(op, etype string) (msg, error) {
	if c.closed {
		return msg{}, comm.ErrClosed
	}
	m, ok := <-c.fromRoot
	if !ok {
		return msg{}, comm.ErrClosed
	}
	if m.op != op || m.etype != etype {
		return msg{}, &comm.ErrShapeMismatch{Want: op + " " + etype, Got: m.shape()}
	}
	return m, nil
}

func (c *Endpoint) BroadcastByte() (byte, error) {
	m, err := c.recv("broadcast", "byte")
	if err != nil {
		return 0, err
	}
	return m.value.(byte), nil
}

func (c *Endpoint) BroadcastHandle() (wire.Handle, error) {
	m, err := c.recv("broadcast", "handle")
	if err != nil {
		return 0, err
	}
	return m.value.(wire.Handle), nil
}

func (c *Endpoint) BroadcastSize() (wire.Size, error) {
	m, err := c.recv("broadcast", "size")
	if err != nil {
		return 0, err
	}
	return m.value.(wire.Size), nil
}

func (c *Endpoint) ScatterSize() (wire.Size, error) {
	m, err := c.recv("scatter", "size")
	if err != nil {
		return 0, err
	}
	return m.value.(wire.Size), nil
}

func (c *Endpoint) ScatterSizes(n int) ([]wire.Size, error) {
	m, err := c.recv("scatter", "sizes")
	if err != nil {
		return nil, err
	}
	vals := m.value.([]wire.Size)
	if len(vals) != n {
		return nil, &comm.ErrShapeMismatch{
			Want: fmt.Sprintf("scatter sizes[%d]", n),
			Got:  fmt.Sprintf("scatter sizes[%d]", len(vals)),
		}
	}
	return vals, nil
}

func (c *Endpoint) ScatterGlobals(n int) ([]wire.GlobalIndex, error) {
	m, err := c.recv("scatter", "globals")
	if err != nil {
		return nil, err
	}
	vals := m.value.([]wire.GlobalIndex)
	if len(vals) != n {
		return nil, &comm.ErrShapeMismatch{
			Want: fmt.Sprintf("scatter globals[%d]", n),
			Got:  fmt.Sprintf("scatter globals[%d]", len(vals)),
		}
	}
	return vals, nil
}

// contribute hands a message to the root, blocking until the root's
// matching gather consumes it.
func (c *Endpoint) contribute(m msg) error {
	if c.closed {
		return comm.ErrClosed
	}
	c.toRoot <- m
	return nil
}

func (c *Endpoint) GatherHandle(h wire.Handle) error {
	return c.contribute(msg{op: "gather", etype: "handle", value: h})
}

func (c *Endpoint) GatherScalars(values []wire.Scalar) error {
	cp := make([]wire.Scalar, len(values))
	copy(cp, values)
	return c.contribute(msg{op: "gather", etype: "scalars", value: cp})
}

func (c *Endpoint) RecvHandle() (wire.Handle, error) {
	m, err := c.recv("send", "handle")
	if err != nil {
		return 0, err
	}
	return m.value.(wire.Handle), nil
}

func (c *Endpoint) RecvSize() (wire.Size, error) {
	m, err := c.recv("send", "size")
	if err != nil {
		return 0, err
	}
	return m.value.(wire.Size), nil
}

func (c *Endpoint) RecvGlobals(n int) ([]wire.GlobalIndex, error) {
	m, err := c.recv("send", "globals")
	if err != nil {
		return nil, err
	}
	vals := m.value.([]wire.GlobalIndex)
	if len(vals) != n {
		return nil, &comm.ErrShapeMismatch{
			Want: fmt.Sprintf("send globals[%d]", n),
			Got:  fmt.Sprintf("send globals[%d]", len(vals)),
		}
	}
	return vals, nil
}

func (c *Endpoint) RecvScalars(n int) ([]wire.Scalar, error) {
	m, err := c.recv("send", "scalars")
	if err != nil {
		return nil, err
	}
	vals := m.value.([]wire.Scalar)
	if len(vals) != n {
		return nil, &comm.ErrShapeMismatch{
			Want: fmt.Sprintf("send scalars[%d]", n),
			Got:  fmt.Sprintf("send scalars[%d]", len(vals)),
		}
	}
	return vals, nil
}

// Close marks the endpoint closed. The channels themselves are owned by
// the root side.
func (c *Endpoint) Close() error {
	c.closed = true
	return nil
}

// Root is the controller-side endpoint of a hub. It implements comm.Root.
// All per-rank slices are indexed by rank and must have exactly Size
// elements.
type Root struct {
	ranks  []*Endpoint
	closed bool
}

var _ comm.Root = (*Root)(nil)

// Size returns the number of ranks in the group.
func (r *Root) Size() int { return len(r.ranks) }

// deliver sends one message to a single rank, blocking until that rank's
// matching call consumes it.
func (r *Root) deliver(rank int, m msg) error {
	if r.closed {
		return comm.ErrClosed
	}
	r.ranks[rank].fromRoot <- m
	return nil
}

// broadcast delivers the same message to every rank in rank order.
func (r *Root) broadcast(m msg) error {
	for rank := range r.ranks {
		if err := r.deliver(rank, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *Root) BroadcastByte(b byte) error {
	return r.broadcast(msg{op: "broadcast", etype: "byte", value: b})
}

func (r *Root) BroadcastHandle(h wire.Handle) error {
	return r.broadcast(msg{op: "broadcast", etype: "handle", value: h})
}

func (r *Root) BroadcastSize(s wire.Size) error {
	return r.broadcast(msg{op: "broadcast", etype: "size", value: s})
}

func (r *Root) ScatterSize(perRank []wire.Size) error {
	if len(perRank) != r.Size() {
		return fmt.Errorf("inproc: scatter size has %d chunks for %d ranks", len(perRank), r.Size())
	}
	for rank, s := range perRank {
		if err := r.deliver(rank, msg{op: "scatter", etype: "size", value: s}); err != nil {
			return err
		}
	}
	return nil
}

func (r *Root) ScatterSizes(perRank [][]wire.Size) error {
	if len(perRank) != r.Size() {
		return fmt.Errorf("inproc: scatter sizes has %d chunks for %d ranks", len(perRank), r.Size())
	}
	for rank, vals := range perRank {
		cp := make([]wire.Size, len(vals))
		copy(cp, vals)
		if err := r.deliver(rank, msg{op: "scatter", etype: "sizes", value: cp}); err != nil {
			return err
		}
	}
	return nil
}

func (r *Root) ScatterGlobals(perRank [][]wire.GlobalIndex) error {
	if len(perRank) != r.Size() {
		return fmt.Errorf("inproc: scatter globals has %d chunks for %d ranks", len(perRank), r.Size())
	}
	for rank, vals := range perRank {
		cp := make([]wire.GlobalIndex, len(vals))
		copy(cp, vals)
		if err := r.deliver(rank, msg{op: "scatter", etype: "globals", value: cp}); err != nil {
			return err
		}
	}
	return nil
}

// collect receives one contribution from every rank, in rank order.
func (r *Root) collect(op, etype string) ([]msg, error) {
	if r.closed {
		return nil, comm.ErrClosed
	}
	out := make([]msg, r.Size())
	for rank, ep := range r.ranks {
		m, ok := <-ep.toRoot
		if !ok {
			return nil, comm.ErrClosed
		}
		if m.op != op || m.etype != etype {
			return nil, &comm.ErrShapeMismatch{Want: op + " " + etype, Got: m.shape()}
		}
		out[rank] = m
	}
	return out, nil
}

func (r *Root) GatherHandles() ([]wire.Handle, error) {
	msgs, err := r.collect("gather", "handle")
	if err != nil {
		return nil, err
	}
	out := make([]wire.Handle, len(msgs))
	for i, m := range msgs {
		out[i] = m.value.(wire.Handle)
	}
	return out, nil
}

func (r *Root) GatherScalars() ([][]wire.Scalar, error) {
	msgs, err := r.collect("gather", "scalars")
	if err != nil {
		return nil, err
	}
	out := make([][]wire.Scalar, len(msgs))
	for i, m := range msgs {
		out[i] = m.value.([]wire.Scalar)
	}
	return out, nil
}

func (r *Root) SendHandle(rank int, h wire.Handle) error {
	return r.deliver(rank, msg{op: "send", etype: "handle", value: h})
}

func (r *Root) SendSize(rank int, s wire.Size) error {
	return r.deliver(rank, msg{op: "send", etype: "size", value: s})
}

func (r *Root) SendGlobals(rank int, vals []wire.GlobalIndex) error {
	cp := make([]wire.GlobalIndex, len(vals))
	copy(cp, vals)
	return r.deliver(rank, msg{op: "send", etype: "globals", value: cp})
}

func (r *Root) SendScalars(rank int, vals []wire.Scalar) error {
	cp := make([]wire.Scalar, len(vals))
	copy(cp, vals)
	return r.deliver(rank, msg{op: "send", etype: "scalars", value: cp})
}

// Close tears the hub down. Ranks blocked in a receive observe ErrClosed.
func (r *Root) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	for _, ep := range r.ranks {
		close(ep.fromRoot)
	}
	return nil
}
