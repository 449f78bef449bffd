package server

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/dreamware/taura/internal/comm"
	"github.com/dreamware/taura/internal/registry"
	"github.com/dreamware/taura/internal/wire"
)

// Server runs the command event loop for one worker rank. It owns the
// rank's handle registry and its end of the group channel.
//
// A Server is single-threaded by design: exactly one command executes at a
// time, and handlers run to completion before the next token is read, so
// no locking exists anywhere below it.
type Server struct {
	comm     comm.Comm
	registry *registry.Registry
	logger   *slog.Logger
	handlers [wire.NumTokens]func() error
}

// New creates a server over an established group channel. reg is typically
// a fresh registry; passing one in keeps the server testable in isolation.
// A nil logger disables logging.
func New(c comm.Comm, reg *registry.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		comm:     c,
		registry: reg,
		logger:   logger.With("rank", c.Rank(), "size", c.Size()),
	}

	// The table index is the wire token value; the ordering is part of the
	// protocol and must match wire's token constants.
	s.handlers[wire.TokenNewMatrix] = s.handleNewMatrix
	s.handlers[wire.TokenNewVector] = s.handleNewVector
	s.handlers[wire.TokenAddVectorEntries] = s.handleAddVectorEntries
	s.handlers[wire.TokenGetVector] = s.handleGetVector
	s.handlers[wire.TokenNewMap] = s.handleNewMap
	s.handlers[wire.TokenNewGraph] = s.handleNewGraph

	return s
}

// Run executes the event loop until the controller broadcasts a
// termination token, then releases the channel and returns nil.
//
// Any handler or transport error is fatal to the session: Run returns the
// error immediately without attempting to resynchronize, and the caller is
// expected to terminate the process. The controller detects the failure as
// an unexpected channel closure.
func (s *Server) Run() error {
	s.logger.Info("event loop started")
	for {
		b, err := s.comm.BroadcastByte()
		if err != nil {
			return fmt.Errorf("receive token: %w", err)
		}
		tok := wire.Token(b)
		if !tok.Valid() {
			s.logger.Info("termination token received", "token", uint8(tok))
			return s.comm.Close()
		}
		s.logger.Debug("dispatching", "command", tok.String())
		if err := s.handlers[tok](); err != nil {
			return fmt.Errorf("%s: %w", tok, err)
		}
	}
}
