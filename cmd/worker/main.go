// Package main implements the taura worker binary, one rank of the
// distributed sparse linear-algebra pool.
//
// The worker is a server in the narrow sense: it never initiates anything.
// A controlling process broadcasts one-byte command tokens over the group
// channel; every worker executes the selected command in lockstep through
// collective transfers, assembling its local portion of the distributed
// objects, until a termination token arrives.
//
// Modes (argument-selected):
//
//	worker info       print protocol metadata (command names and the bit
//	                  widths of the wire value types) and exit 0; lets a
//	                  controller self-configure without hardcoding widths
//	worker eventloop  join the group channel as a spawned child, run the
//	                  command dispatcher until terminated, exit 0
//	anything else     print a usage line and exit 1
//
// Configuration (eventloop mode only):
//   - CONTROLLER_ADDR: TCP address of the controller's listener (required)
//   - WORKER_LOG_LEVEL: slog level for structured logging (default "info")
//
// Example usage:
//
//	# Inspect the protocol
//	./worker info
//
//	# Join a controller listening on :9123
//	CONTROLLER_ADDR=127.0.0.1:9123 ./worker eventloop
package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/dreamware/taura/internal/comm/tcpcomm"
	"github.com/dreamware/taura/internal/registry"
	"github.com/dreamware/taura/internal/server"
	"github.com/dreamware/taura/internal/wire"
)

// logFatal is a variable to allow mocking log.Fatal in tests.
var logFatal = log.Fatalf

func main() {
	os.Exit(run(os.Args, os.Stdout))
}

// run dispatches on the mode argument and returns the process exit code.
// Split from main so tests can drive it with a fake argv and capture
// stdout.
func run(args []string, stdout io.Writer) int {
	if len(args) == 2 && args[1] == "info" {
		printInfo(stdout)
		return 0
	}
	if len(args) == 2 && args[1] == "eventloop" {
		eventloop()
		return 0
	}
	fmt.Fprintf(stdout, "syntax: %s info|eventloop\n", args[0])
	return 1
}

// printInfo writes the static protocol metadata: the ordered command list
// (position = token value) and the wire type widths.
func printInfo(w io.Writer) {
	fmt.Fprintf(w, "token: enum(")
	for i, name := range wire.TokenNames() {
		if i > 0 {
			fmt.Fprint(w, ",")
		}
		fmt.Fprint(w, name)
	}
	fmt.Fprintln(w, ")")
	fmt.Fprintf(w, "local: int%d\n", wire.LocalIndexBits)
	fmt.Fprintf(w, "global: int%d\n", wire.GlobalIndexBits)
	fmt.Fprintf(w, "size: uint%d\n", wire.SizeBits)
	fmt.Fprintf(w, "handle: int%d\n", wire.HandleBits)
	fmt.Fprintf(w, "scalar: float%d\n", wire.ScalarBits)
}

// eventloop joins the group channel and serves commands until terminated.
// Every failure is fatal: the protocol has no recovery path, so the worker
// dies and leaves detection to the controller.
func eventloop() {
	addr := mustGetenv("CONTROLLER_ADDR")

	c, err := tcpcomm.Dial(addr)
	if err != nil {
		logFatal("join group channel: %v", err)
		return
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(getenv("WORKER_LOG_LEVEL", "info")),
	}))

	srv := server.New(c, registry.New(), logger)
	if err := srv.Run(); err != nil {
		logFatal("event loop: %v", err)
	}
}

// logLevel maps a level name to a slog.Level, defaulting to info.
func logLevel(name string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// getenv retrieves an environment variable with a default fallback value.
func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// mustGetenv retrieves a required environment variable, terminating the
// program if it's not set.
func mustGetenv(k string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	logFatal("missing env %s", k)
	return ""
}
