// async.go: bounded async pipeline with a dedicated drain goroutine
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package ember

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/agilira/ember/internal/ring"
	"github.com/agilira/go-timecache"
)

const maxAsyncEntryLen = 2048

// AsyncEntry is one pre-formatted, already-serialized log line plus the
// metadata the drain loop and the sample backpressure policy need. Formatting
// happens on the caller's goroutine; the drain loop never serializes
// anything. It writes each entry's bytes to the sink with one Write call
// per entry; entries of a batch are not joined into a single buffer.
type AsyncEntry struct {
	data      [maxAsyncEntryLen]byte
	length    int
	timestamp int64
	level     Level
}

func (e *AsyncEntry) bytes() []byte { return e.data[:e.length] }

// BackpressurePolicy mirrors ring.Policy at the package boundary so callers
// configuring a Config don't need to import the internal package.
type BackpressurePolicy int

const (
	PolicyDrop BackpressurePolicy = iota
	PolicyBlock
	PolicySample
)

func (p BackpressurePolicy) toRing() ring.Policy {
	switch p {
	case PolicyBlock:
		return ring.BlockOnFull
	case PolicySample:
		return ring.SampleOnFull
	default:
		return ring.DropOnFull
	}
}

// PipelineMetrics is a point-in-time snapshot of the async pipeline's
// counters, all monotonically nondecreasing except Pending.
type PipelineMetrics struct {
	LogsWritten int64
	LogsDropped int64
	FlushCount  int64
	Pending     int64
}

type pipelineState int32

const (
	stateInit pipelineState = iota
	stateRunning
	stateStopping
	stateStopped
)

// AsyncPipeline owns a bounded ring of AsyncEntry and the single goroutine
// that drains it, writing each entry straight through to the sink. The
// drain goroutine runs the ring's own consumer loop rather than polling it
// on a separate timer, so idle periods back off through the ring's idle
// strategy instead of spinning.
type AsyncPipeline struct {
	ring   *ring.Ring[AsyncEntry]
	output WriteSyncer

	state      atomic.Int32
	flushCount atomic.Int64
	wg         sync.WaitGroup
}

// NewAsyncPipeline builds and starts an AsyncPipeline writing entries to
// output.
func NewAsyncPipeline(cfg Config, output WriteSyncer) (*AsyncPipeline, error) {
	capacity := nextPowerOfTwo(cfg.AsyncQueueSize)
	batch := int64(cfg.BatchSize)
	if batch > capacity {
		batch = capacity
	}
	p := &AsyncPipeline{output: output}
	maxIdleSleep := time.Duration(cfg.FlushIntervalMillis) * time.Millisecond
	r, err := ring.NewBuilder[AsyncEntry](capacity).
		WithProcessor(p.process).
		WithPriority(isHighPriority).
		WithBatchSize(batch).
		WithPolicy(cfg.Backpressure.toRing()).
		WithIdleStrategy(ring.NewProgressiveIdleStrategyWithMaxSleep(maxIdleSleep)).
		Build()
	if err != nil {
		return nil, newFieldError(ErrCodeAsyncSetupFailed, "async pipeline setup failed", "error", err.Error())
	}
	p.ring = r
	p.state.Store(int32(stateRunning))
	p.wg.Add(1)
	go p.run()
	return p, nil
}

func isHighPriority(e *AsyncEntry) bool { return e.level >= ErrLevel }

func nextPowerOfTwo(n int) int64 {
	if n <= 1 {
		return 1
	}
	v := int64(n - 1)
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	return v + 1
}

// Enqueue copies the caller's pre-serialized payload into the entry's fixed
// buffer, truncating it at maxAsyncEntryLen bytes. Returns false if the
// entry was rejected by the active backpressure policy.
func (p *AsyncPipeline) Enqueue(level Level, payload []byte) bool {
	if len(payload) > maxAsyncEntryLen {
		payload = payload[:maxAsyncEntryLen]
	}
	return p.ring.Write(func(e *AsyncEntry) {
		e.length = copy(e.data[:], payload)
		e.timestamp = timecache.CachedTimeNano()
		e.level = level
	})
}

// process is the ring's per-entry callback. It only ever runs on the single
// drain goroutine, so writing straight to output without locking is safe;
// the sink is expected to serialize its own writes if it is shared.
func (p *AsyncPipeline) process(e *AsyncEntry) {
	if e.length == 0 {
		return
	}
	if _, err := p.output.Write(e.bytes()); err != nil {
		handleError(newFieldError(ErrCodeAsyncSetupFailed, "sink write failed", "error", err.Error()))
		return
	}
	p.flushCount.Add(1)
}

// run drives the ring's own consumer loop until Close marks the ring
// closed and the final drain empties it.
func (p *AsyncPipeline) run() {
	defer p.wg.Done()
	p.ring.LoopProcess()
}

// Close marks the ring closed, which makes the drain goroutine perform one
// final drain and return, then waits for it to exit.
func (p *AsyncPipeline) Close() error {
	if !p.state.CompareAndSwap(int32(stateRunning), int32(stateStopping)) {
		return nil
	}
	p.ring.Close()
	p.wg.Wait()
	p.state.Store(int32(stateStopped))
	return nil
}

// Flush blocks until every entry enqueued before the call has been
// written, or the timeout elapses.
func (p *AsyncPipeline) Flush(timeout time.Duration) error {
	return p.ring.Flush(timeout)
}

// Metrics returns a snapshot of the pipeline's counters.
func (p *AsyncPipeline) Metrics() PipelineMetrics {
	s := p.ring.Stats()
	return PipelineMetrics{
		LogsWritten: s.Processed,
		LogsDropped: s.Dropped,
		FlushCount:  p.flushCount.Load(),
		Pending:     s.Pending,
	}
}
