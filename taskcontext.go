// taskcontext.go: per-goroutine task correlation with a bounded span stack
//
// Go has no native thread-locals. Rather than key a global registry off
// goroutine IDs (unsupported and unsafe to obtain portably), a TaskContext
// is an explicitly-owned value: callers create one per logical task
// (typically once per request) and either thread it through calls or carry
// it in a context.Context via WithTaskContext/TaskContextFromContext. Both
// push and pop are only ever called by the owning goroutine; TaskContext
// does no internal locking.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package ember

import "context"

const maxSpanStackDepth = 32

// TaskContext tracks the active trace and a LIFO stack of in-flight span
// ids for one logical task.
type TaskContext struct {
	Trace    *TraceContext
	TaskID   int64
	ParentID int64
	hasParent bool

	stack    [maxSpanStackDepth][8]byte
	depth    int
}

// NewTaskContext starts a fresh task rooted at a newly generated trace.
func NewTaskContext(taskID int64, sampled bool) *TaskContext {
	return &TaskContext{Trace: NewTraceContext(sampled), TaskID: taskID}
}

// NewChildTaskContext derives a task context that shares the parent's trace
// id via CreateChildTraceContext.
func NewChildTaskContext(parent *TaskContext, taskID int64, sampled bool) *TaskContext {
	return &TaskContext{
		Trace:     parent.Trace.CreateChildTraceContext(sampled),
		TaskID:    taskID,
		ParentID:  parent.TaskID,
		hasParent: true,
	}
}

// PushSpan appends spanID to the bounded stack. Returns an error if the
// stack is already at capacity; callers must pair every push with a pop.
func (tc *TaskContext) PushSpan(spanID [8]byte) error {
	if tc.depth >= maxSpanStackDepth {
		return newFieldError(ErrCodeSpanStackOverflow, "span stack overflow", "depth", tc.depth)
	}
	tc.stack[tc.depth] = spanID
	tc.depth++
	return nil
}

// PopSpan removes and returns the top of the stack, or ok=false if empty.
func (tc *TaskContext) PopSpan() (id [8]byte, ok bool) {
	if tc.depth == 0 {
		return id, false
	}
	tc.depth--
	return tc.stack[tc.depth], true
}

// CurrentSpan returns the top of the stack without removing it.
func (tc *TaskContext) CurrentSpan() (id [8]byte, ok bool) {
	if tc.depth == 0 {
		return id, false
	}
	return tc.stack[tc.depth-1], true
}

// Depth reports how many spans are currently pushed.
func (tc *TaskContext) Depth() int { return tc.depth }

type taskContextKey struct{}

// WithTaskContext stores tc in ctx for retrieval by TaskContextFromContext.
func WithTaskContext(ctx context.Context, tc *TaskContext) context.Context {
	return context.WithValue(ctx, taskContextKey{}, tc)
}

// TaskContextFromContext retrieves a TaskContext previously stored by
// WithTaskContext, if any.
func TaskContextFromContext(ctx context.Context) (*TaskContext, bool) {
	tc, ok := ctx.Value(taskContextKey{}).(*TaskContext)
	return tc, ok
}
