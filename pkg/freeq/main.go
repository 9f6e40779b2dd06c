package freeq

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mainMu sync.Mutex
	mainQ  Queue
)

// Main returns the process-wide shared-flavor queue, creating it on first
// use. Call sites that do not manage their own queue use this one. Creation
// is idempotent under concurrent first use.
func Main() Queue {
	mainMu.Lock()
	defer mainMu.Unlock()
	if mainQ == nil {
		mainQ = New(FlavorShared)
		logger().Debug("main free queue created",
			zap.Int("count_max", mainQ.CountMax()),
			zap.Int64("mem_max", mainQ.MemMax()))
	}
	return mainQ
}

// Shutdown drains and releases the main queue. Call it at process teardown,
// after every producer has stopped; no pending item is discarded. A later
// Main call creates a fresh queue.
func Shutdown() {
	mainMu.Lock()
	q := mainQ
	mainQ = nil
	mainMu.Unlock()

	if q == nil {
		return
	}
	pending := q.Len()
	q.Close()
	logger().Debug("main free queue drained", zap.Int("pending", pending))
}
