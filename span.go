// span.go: span lifecycle (new -> active -> ended)
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package ember

import (
	"sync/atomic"

	"github.com/agilira/go-timecache"
)

type spanState int32

const (
	spanActive spanState = iota
	spanEnded
)

// Span represents one active unit of work correlated to a TraceContext.
// SpanStart pushes it onto the owning TaskContext's stack; SpanEnd pops it,
// requiring LIFO nesting, records a non-negative duration, and — when a
// logger was given to SpanStart — emits an info-level record carrying it.
type Span struct {
	Trace       *TraceContext
	Name        string
	StartTimeNs int64
	ThreadID    int64

	task      *TaskContext
	logger    *Logger
	spanID    [8]byte
	endTimeNs int64
	state     atomic.Int32
}

// SpanStart begins a new span on tc, pushing its span id onto tc's stack.
// name must be 1..255 bytes. logger may be nil, in which case SpanEnd skips
// its completion emission; otherwise SpanEnd logs through it at info level,
// correlated to the span's own trace context. Returns an error if the stack
// is already full.
func SpanStart(logger *Logger, tc *TaskContext, name string, threadID int64) (*Span, error) {
	if len(name) == 0 || len(name) > 255 {
		return nil, newFieldError(ErrCodeInvalidConfig, "span name length out of range", "name_len", len(name))
	}
	child := tc.Trace.CreateChildTraceContext(tc.Trace.Flags.IsSampled())
	s := &Span{
		Trace:       child,
		Name:        name,
		StartTimeNs: timecache.CachedTimeNano(),
		ThreadID:    threadID,
		task:        tc,
		logger:      logger,
		spanID:      child.SpanID,
	}
	if err := tc.PushSpan(s.spanID); err != nil {
		return nil, err
	}
	return s, nil
}

// SpanEnd pops s from its task's stack (requires LIFO nesting), records a
// non-negative duration, emits an info-level completion record through the
// logger SpanStart was given (if any), and returns the duration. Calling
// SpanEnd twice on the same span returns an error on the second call.
func (s *Span) SpanEnd() (durationNs int64, err error) {
	if !s.state.CompareAndSwap(int32(spanActive), int32(spanEnded)) {
		return 0, newError(ErrCodeSpanAlreadyEnded, "span already ended")
	}
	top, ok := s.task.CurrentSpan()
	if !ok || top != s.spanID {
		// Put the span back into "active" so a correctly-ordered caller
		// can still end it; the stack itself is left untouched since
		// nothing was popped.
		s.state.Store(int32(spanActive))
		return 0, newError(ErrCodeSpanNotLIFO, "span end is not LIFO with its task's stack")
	}
	s.task.PopSpan()
	s.endTimeNs = timecache.CachedTimeNano()
	durationNs = s.endTimeNs - s.StartTimeNs
	if durationNs < 0 {
		durationNs = 0
	}
	if s.logger != nil {
		s.logger.WithTrace(s.Trace).Info("span ended",
			Str("span_name", s.Name),
			Int64("duration_ns", durationNs))
	}
	return durationNs, nil
}
