// Package main implements a demonstration controller for the taura worker
// pool.
//
// The real controller is whatever program drives a session; this binary
// exists so the two ends of the protocol can be exercised by hand. It
// listens for a fixed number of workers, runs one scripted session that
// touches every command, prints the gathered results, and shuts the pool
// down.
//
// Configuration:
//   - CONTROLLER_LISTEN: listen address (default ":9123")
//   - CONTROLLER_WORKERS: number of workers to wait for (default "2")
//
// Example usage:
//
//	# Terminal 1
//	CONTROLLER_LISTEN=:9123 CONTROLLER_WORKERS=2 ./controller
//
//	# Terminals 2 and 3
//	CONTROLLER_ADDR=127.0.0.1:9123 ./worker eventloop
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/dreamware/taura/internal/comm"
	"github.com/dreamware/taura/internal/comm/tcpcomm"
	"github.com/dreamware/taura/internal/control"
	"github.com/dreamware/taura/internal/wire"
)

// logFatal is a variable to allow mocking log.Fatal in tests.
var logFatal = log.Fatalf

func main() {
	listen := getenv("CONTROLLER_LISTEN", ":9123")
	workers, err := strconv.Atoi(getenv("CONTROLLER_WORKERS", "2"))
	if err != nil || workers <= 0 {
		logFatal("invalid CONTROLLER_WORKERS: %v", getenv("CONTROLLER_WORKERS", "2"))
		return
	}

	log.Printf("controller listening on %s for %d workers", listen, workers)
	root, err := tcpcomm.Listen(listen, workers)
	if err != nil {
		logFatal("listen: %v", err)
		return
	}
	defer root.Close()
	log.Printf("group complete, running demo session")

	if err := session(root); err != nil {
		logFatal("session: %v", err)
	}
}

// session runs one scripted exchange covering every command: an index
// distribution cut into contiguous blocks, a vector with one accumulated
// entry per rank, a tridiagonal-patterned graph, and a matrix over it.
func session(root comm.Root) error {
	n := root.Size()

	// Block-partitioned index space, 4 indices per rank.
	const perRank = 4
	size := wire.Size(n * perRank)
	parts := make([][]wire.GlobalIndex, n)
	for rank := range parts {
		for i := 0; i < perRank; i++ {
			parts[rank] = append(parts[rank], wire.GlobalIndex(rank*perRank+i))
		}
	}
	mapH, err := control.NewMap(root, size, parts)
	if err != nil {
		return err
	}
	log.Printf("map handle %d (size %d)", mapH, size)

	vecH, err := control.NewVector(root, mapH)
	if err != nil {
		return err
	}
	log.Printf("vector handle %d", vecH)

	// One entry per rank: the first index each rank owns gets rank+1.
	for rank := 0; rank < n; rank++ {
		idx := []wire.GlobalIndex{parts[rank][0]}
		vals := []wire.Scalar{wire.Scalar(rank + 1)}
		if err := control.AddVectorEntries(root, rank, vecH, idx, vals); err != nil {
			return err
		}
	}

	local, err := control.GetVector(root, vecH)
	if err != nil {
		return err
	}
	for rank, vals := range local {
		fmt.Printf("rank %d: %v\n", rank, vals)
	}

	// Tridiagonal pattern over the same distribution.
	rowCounts := make([][]wire.Size, n)
	cols := make([][]wire.GlobalIndex, n)
	for rank := range parts {
		for _, g := range parts[rank] {
			row := []wire.GlobalIndex{g}
			if g > 0 {
				row = append(row, g-1)
			}
			if wire.Size(g) < size-1 {
				row = append(row, g+1)
			}
			rowCounts[rank] = append(rowCounts[rank], wire.Size(len(row)))
			cols[rank] = append(cols[rank], row...)
		}
	}
	graphH, err := control.NewGraph(root, mapH, rowCounts, cols)
	if err != nil {
		return err
	}
	log.Printf("graph handle %d", graphH)

	matH, err := control.NewMatrix(root, graphH)
	if err != nil {
		return err
	}
	log.Printf("matrix handle %d", matH)

	if err := control.Shutdown(root); err != nil {
		return err
	}
	log.Printf("pool shut down")
	return nil
}

// getenv retrieves an environment variable with a default fallback value.
func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
