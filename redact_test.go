package ember

import "testing"

func TestRedactionPolicy_CompileAndRuntimeSets(t *testing.T) {
	p := NewRedactionPolicy([]string{"password"})
	if !p.ShouldRedact("password") {
		t.Error("compile-time key should redact")
	}
	if p.ShouldRedact("username") {
		t.Error("unrelated key should not redact")
	}
	p.AddRuntimeKey("session_token")
	if !p.ShouldRedact("session_token") {
		t.Error("runtime key should redact after add")
	}
	p.RemoveRuntimeKey("session_token")
	if p.ShouldRedact("session_token") {
		t.Error("runtime key should stop redacting after remove")
	}
	p.AddRuntimeKey("password")
	p.RemoveRuntimeKey("password")
	if !p.ShouldRedact("password") {
		t.Error("compile-time key must stay redacted even after a runtime remove")
	}
}

func TestRedactionPolicy_NilSafe(t *testing.T) {
	var p *RedactionPolicy
	if p.ShouldRedact("anything") {
		t.Error("nil policy should never redact")
	}
	p.AddRuntimeKey("x") // must not panic
	p.RemoveRuntimeKey("x")
}

func TestSentinelCompact_CarriesTagAndHint(t *testing.T) {
	buf := getScratch(256)
	f := SecretHint("token", "tail-ab12")
	if !sentinelCompact(buf, f) {
		t.Fatal("sentinelCompact overflowed")
	}
	got := string(buf.Bytes())
	want := `"[REDACTED:any:tail-ab12]"`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	putScratch(buf)
}

func TestSentinelCompact_NoHint(t *testing.T) {
	buf := getScratch(256)
	f := Secret("password", "hunter2")
	if !sentinelCompact(buf, f) {
		t.Fatal("sentinelCompact overflowed")
	}
	got := string(buf.Bytes())
	want := `"[REDACTED:string]"`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if containsBytes(got, "hunter2") {
		t.Error("sentinel must never leak the raw value")
	}
	putScratch(buf)
}

func containsBytes(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
