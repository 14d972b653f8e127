package ember

import (
	"strings"
	"testing"
)

func TestEncodeOTLPBatch_EnvelopeShape(t *testing.T) {
	records := []LogRecord{
		{Level: InfoLevel, Body: "first", TimestampNs: 1},
		{Level: ErrLevel, Body: "second", TimestampNs: 2},
	}
	out, ok := EncodeOTLPBatch(records, DefaultResource("svc"), InstrumentationScope{Name: "ember"}, 32, nil, false)
	if !ok {
		t.Fatal("EncodeOTLPBatch overflowed")
	}
	s := string(out)
	if !strings.HasPrefix(s, `{"resourceLogs":[{"resource":{"attributes":`) {
		t.Errorf("unexpected prefix: %s", s)
	}
	if !strings.Contains(s, `"scopeLogs":[{"scope":{"name":"ember"}`) {
		t.Errorf("missing scopeLogs block: %s", s)
	}
	if !strings.Contains(s, `"body":{"stringValue":"first"}`) || !strings.Contains(s, `"body":{"stringValue":"second"}`) {
		t.Errorf("missing log record bodies: %s", s)
	}
	if !strings.HasSuffix(s, `]}]}]}`) {
		t.Errorf("unexpected suffix: %s", s)
	}
}

func TestEncodeOTLPBatch_DroppedAttributesCountAlwaysPresent(t *testing.T) {
	records := []LogRecord{
		{Level: InfoLevel, Body: "no-attrs"},
		{Level: InfoLevel, Body: "with-attrs", Attributes: []Field{Str("k", "v")}},
	}
	out, ok := EncodeOTLPBatch(records, Resource{}, InstrumentationScope{Name: "ember"}, 32, nil, false)
	if !ok {
		t.Fatal("EncodeOTLPBatch overflowed")
	}
	s := string(out)
	if strings.Count(s, `"droppedAttributesCount":0`) != 3 {
		t.Errorf("expected droppedAttributesCount:0 on the resource and both log records, got: %s", s)
	}
}

func TestEncodeOTLPBatch_EmptyRecordsStillValidEnvelope(t *testing.T) {
	out, ok := EncodeOTLPBatch(nil, DefaultResource("svc"), InstrumentationScope{Name: "ember"}, 32, nil, false)
	if !ok {
		t.Fatal("EncodeOTLPBatch overflowed on empty batch")
	}
	if !strings.Contains(string(out), `"logRecords":[]`) {
		t.Errorf("expected empty logRecords array: %s", out)
	}
}

func TestEncodeOTLPBatch_ResultSurvivesPoolReuse(t *testing.T) {
	out, ok := EncodeOTLPBatch([]LogRecord{{Level: InfoLevel, Body: "x"}}, DefaultResource("svc"), InstrumentationScope{Name: "ember"}, 32, nil, false)
	if !ok {
		t.Fatal("EncodeOTLPBatch overflowed")
	}
	// force reuse of the pooled scratch buffer and confirm out wasn't aliased into it
	buf := getScratch(4096)
	buf.WriteString(strings.Repeat("z", 100))
	putScratch(buf)
	if !strings.Contains(string(out), `"body":{"stringValue":"x"}`) {
		t.Errorf("returned bytes were corrupted by pool reuse: %s", out)
	}
}
