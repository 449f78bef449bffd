// Package tcpcomm implements the group channel over TCP for multi-process
// deployments. The controller listens, each spawned worker dials in, and
// ranks are assigned in connection order during a fixed handshake.
//
// Every primitive is one framed binary message per participating
// connection. A frame carries the originating operation and element type
// so the receiving side can detect a diverged call sequence as an
// ErrShapeMismatch instead of misreading bytes. Payloads at or above a
// threshold are zstd-compressed; sparse structure transfers (row counts,
// column indices) compress well because of their regularity.
//
// Kernel socket buffering means a send-side primitive may complete before
// the receiver has issued its matching call. Message ordering per
// connection is still guaranteed by TCP, which is the only ordering the
// protocol relies on; the lockstep discipline itself remains the caller's
// contract, exactly as on the in-process transport.
package tcpcomm
