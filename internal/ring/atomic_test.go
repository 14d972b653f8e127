package ring

import "testing"

func TestPaddedInt64_LoadStoreAddCAS(t *testing.T) {
	var p PaddedInt64
	p.Store(5)
	if p.Load() != 5 {
		t.Fatalf("Load = %d, want 5", p.Load())
	}
	if p.Add(3) != 8 {
		t.Fatalf("Add result wrong")
	}
	if !p.CompareAndSwap(8, 10) {
		t.Fatal("CompareAndSwap should succeed when old matches")
	}
	if p.CompareAndSwap(8, 20) {
		t.Fatal("CompareAndSwap should fail when old no longer matches")
	}
	if p.Load() != 10 {
		t.Fatalf("Load = %d, want 10", p.Load())
	}
}
