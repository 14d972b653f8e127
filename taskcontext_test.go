package ember

import (
	"context"
	"testing"
)

func TestTaskContext_PushPopLIFO(t *testing.T) {
	tc := NewTaskContext(1, false)
	var ids [][8]byte
	for i := 0; i < 5; i++ {
		var id [8]byte
		id[0] = byte(i)
		ids = append(ids, id)
		if err := tc.PushSpan(id); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	for i := len(ids) - 1; i >= 0; i-- {
		got, ok := tc.PopSpan()
		if !ok {
			t.Fatalf("pop %d: stack empty early", i)
		}
		if got != ids[i] {
			t.Fatalf("pop %d: LIFO violated", i)
		}
	}
	if _, ok := tc.PopSpan(); ok {
		t.Fatal("pop on empty stack should return ok=false")
	}
}

func TestTaskContext_OverflowAt32(t *testing.T) {
	tc := NewTaskContext(1, false)
	for i := 0; i < maxSpanStackDepth; i++ {
		var id [8]byte
		if err := tc.PushSpan(id); err != nil {
			t.Fatalf("push %d should succeed: %v", i, err)
		}
	}
	var id [8]byte
	if err := tc.PushSpan(id); err == nil {
		t.Fatal("33rd push should overflow")
	}
}

func TestTaskContext_ChildInheritsTraceID(t *testing.T) {
	parent := NewTaskContext(1, true)
	child := NewChildTaskContext(parent, 2, true)
	if child.Trace.TraceIDHex() != parent.Trace.TraceIDHex() {
		t.Error("child task should inherit parent's trace id")
	}
	if child.ParentID != 1 {
		t.Errorf("child.ParentID = %d, want 1", child.ParentID)
	}
}

func TestTaskContext_ContextCarrier(t *testing.T) {
	tc := NewTaskContext(1, false)
	ctx := WithTaskContext(context.Background(), tc)
	got, ok := TaskContextFromContext(ctx)
	if !ok || got != tc {
		t.Fatal("round-trip through context.Context failed")
	}
}
