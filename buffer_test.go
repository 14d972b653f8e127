package ember

import "testing"

func TestScratchBuffer_WritesAccumulate(t *testing.T) {
	b := getScratch(64)
	defer putScratch(b)
	b.WriteString("abc")
	b.WriteByte('-')
	b.WriteInt64(-42)
	if string(b.Bytes()) != "abc--42" {
		t.Errorf("got %q", b.Bytes())
	}
	if b.Overflowed() {
		t.Error("should not be overflowed")
	}
}

func TestScratchBuffer_OverflowLatches(t *testing.T) {
	b := getScratch(4)
	defer putScratch(b)
	if !b.WriteString("ab") {
		t.Fatal("first write should fit")
	}
	if b.WriteString("cdefgh") {
		t.Fatal("second write should overflow")
	}
	if !b.Overflowed() {
		t.Fatal("buffer should be marked overflowed")
	}
	// once overflowed, further writes keep failing even if they'd fit alone
	if b.WriteByte('x') {
		t.Fatal("writes after overflow should keep failing")
	}
}

func TestScratchBuffer_WriteFloat64Fixed5(t *testing.T) {
	b := getScratch(64)
	defer putScratch(b)
	b.WriteFloat64Fixed5(3.14)
	if string(b.Bytes()) != "3.14000" {
		t.Errorf("got %q, want 3.14000", b.Bytes())
	}
}

func TestScratchBuffer_WriteFloat64Fixed5Negative(t *testing.T) {
	b := getScratch(64)
	defer putScratch(b)
	b.WriteFloat64Fixed5(-0.5)
	if string(b.Bytes()) != "-0.50000" {
		t.Errorf("got %q, want -0.50000", b.Bytes())
	}
}

func TestGetScratch_ResetsBetweenUses(t *testing.T) {
	b := getScratch(64)
	b.WriteString("leftover")
	putScratch(b)

	b2 := getScratch(64)
	defer putScratch(b2)
	if b2.Len() != 0 {
		t.Errorf("reused buffer should start empty, got len %d", b2.Len())
	}
}

func TestPutScratch_DropsOversizedBackingArray(t *testing.T) {
	b := getScratch(maxBufferSize*4 + 1)
	putScratch(b)
	b2 := getScratch(64)
	defer putScratch(b2)
	if cap(b2.buf) > maxBufferSize*4 {
		t.Errorf("oversized backing array should have been dropped, cap = %d", cap(b2.buf))
	}
}
