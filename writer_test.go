package ember

import (
	"bytes"
	"errors"
	"testing"
)

func TestWrapWriter_PlainWriterGetsNopSync(t *testing.T) {
	var buf bytes.Buffer
	ws := WrapWriter(&buf)
	if _, err := ws.Write([]byte("hi")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := ws.Sync(); err != nil {
		t.Fatalf("Sync on a plain writer should be a no-op, got: %v", err)
	}
	if buf.String() != "hi" {
		t.Errorf("buf = %q, want %q", buf.String(), "hi")
	}
}

func TestWrapWriter_AlreadyWriteSyncerPassesThrough(t *testing.T) {
	ws := NewNopSyncer()
	if WrapWriter(ws) != ws {
		t.Error("wrapping an existing WriteSyncer should return it unchanged")
	}
}

type failingSyncer struct{ err error }

func (f failingSyncer) Write(p []byte) (int, error) { return len(p), nil }
func (f failingSyncer) Sync() error                 { return f.err }

func TestMultiWriteSyncer_FansOutAndReturnsFirstError(t *testing.T) {
	var a, b bytes.Buffer
	wantErr := errors.New("boom")
	m := NewMultiWriteSyncer(WrapWriter(&a), WrapWriter(&b), failingSyncer{err: wantErr})

	if _, err := m.Write([]byte("payload")); err != nil {
		t.Fatalf("Write should not surface sync errors: %v", err)
	}
	if a.String() != "payload" || b.String() != "payload" {
		t.Fatalf("both sinks should receive the write: a=%q b=%q", a.String(), b.String())
	}
	if err := m.Sync(); err != wantErr {
		t.Errorf("Sync() = %v, want %v", err, wantErr)
	}
}

func TestNopSyncer_DiscardsEverything(t *testing.T) {
	n := NewNopSyncer()
	written, err := n.Write([]byte("anything"))
	if err != nil || written != len("anything") {
		t.Fatalf("nop syncer write = %d, %v", written, err)
	}
	if err := n.Sync(); err != nil {
		t.Fatalf("nop syncer sync: %v", err)
	}
}
