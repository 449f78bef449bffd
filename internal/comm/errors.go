package comm

import (
	"errors"
	"fmt"
)

// ErrClosed is returned when a primitive is invoked on a channel that has
// been closed or torn down by the peer.
var ErrClosed = errors.New("comm: channel closed")

// ErrShapeMismatch indicates that a received message's shape (element type
// or count) disagrees with the call issued locally. This is the detectable
// face of a protocol desync: the call sequences of root and rank have
// diverged. It is never recoverable.
type ErrShapeMismatch struct {
	Want string
	Got  string
}

func (e *ErrShapeMismatch) Error() string {
	return fmt.Sprintf("comm: protocol desync: local call expects %s, channel delivered %s", e.Want, e.Got)
}
