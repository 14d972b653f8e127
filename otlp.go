// otlp.go: OTLP/JSON envelope serializer
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package ember

// EncodeOTLPBatch serializes records (all sharing resource and scope) into
// the OTLP/JSON log envelope:
//   {"resourceLogs":[{"resource":{...},"scopeLogs":[{"scope":{...},"logRecords":[...]}]}]}
// Per Design Notes (b), droppedAttributesCount is always emitted as 0 on
// every attribute-bearing object, consistently, rather than only when
// trace flags happen to be absent.
func EncodeOTLPBatch(records []LogRecord, resource Resource, scope InstrumentationScope, maxFields int, policy *RedactionPolicy, simd bool) ([]byte, bool) {
	buf := getScratch(len(records)*512 + 4096)
	defer putScratch(buf)

	ok := buf.WriteString(`{"resourceLogs":[{"resource":{"attributes":`) &&
		writeResourceAttrs(buf, resource, simd) &&
		buf.WriteString(`,"droppedAttributesCount":0}`) &&
		buf.WriteString(`,"scopeLogs":[{"scope":{"name":"`) && escapeInto(buf, scope.Name, simd) && buf.WriteByte('"')
	if !ok {
		return nil, false
	}
	if scope.Version != "" {
		if !(buf.WriteString(`,"version":"`) && escapeInto(buf, scope.Version, simd) && buf.WriteByte('"')) {
			return nil, false
		}
	}
	if !buf.WriteString(`},"logRecords":[`) {
		return nil, false
	}
	for i, rec := range records {
		if i > 0 && !buf.WriteByte(',') {
			return nil, false
		}
		if !writeOTLPLogRecord(buf, rec, maxFields, policy, simd) {
			return nil, false
		}
	}
	if !(buf.WriteString(`]}]}]}`)) {
		return nil, false
	}
	if buf.Overflowed() {
		return nil, false
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, true
}

// writeOTLPLogRecord is formatOTelRecord's body without the trailing
// newline and without its own resource/scope (the envelope carries those
// once per batch) and with a consistent droppedAttributesCount.
func writeOTLPLogRecord(buf *scratchBuffer, rec LogRecord, maxFields int, policy *RedactionPolicy, simd bool) bool {
	ts := rec.TimestampNs
	if ts <= 0 {
		ts = 1
	}
	obs := rec.ObservedTimestampNs
	if obs <= 0 {
		obs = ts
	}
	ok := buf.WriteString(`{"timeUnixNano":"`) && buf.WriteInt64(ts) && buf.WriteByte('"') &&
		buf.WriteString(`,"observedTimeUnixNano":"`) && buf.WriteInt64(obs) && buf.WriteByte('"') &&
		buf.WriteString(`,"severityNumber":`) && buf.WriteInt64(int64(severityNumber(rec.Level))) &&
		buf.WriteString(`,"severityText":"`) && buf.WriteString(rec.Level.Upper()) && buf.WriteByte('"') &&
		buf.WriteString(`,"body":{"stringValue":"`) && escapeInto(buf, rec.Body, simd) && buf.WriteString(`"}`)
	if !ok {
		return false
	}
	n := len(rec.Attributes)
	if n > maxFields {
		n = maxFields
	}
	if !buf.WriteString(`,"attributes":[`) {
		return false
	}
	for i, f := range rec.Attributes[:n] {
		if i > 0 && !buf.WriteByte(',') {
			return false
		}
		if !(buf.WriteString(`{"key":"`) && escapeInto(buf, f.Key, simd) && buf.WriteString(`","value":`)) {
			return false
		}
		if !writeOTelAttrValue(buf, f, policy, simd) {
			return false
		}
		if !buf.WriteByte('}') {
			return false
		}
	}
	if !(buf.WriteByte(']') && buf.WriteString(`,"droppedAttributesCount":0`)) {
		return false
	}
	if rec.Trace != nil {
		if !(buf.WriteString(`,"traceId":"`) && buf.WriteString(rec.Trace.TraceIDHex()) &&
			buf.WriteString(`","spanId":"`) && buf.WriteString(rec.Trace.SpanIDHex()) && buf.WriteByte('"') &&
			buf.WriteString(`,"flags":`) && buf.WriteInt64(int64(rec.Trace.Flags))) {
			return false
		}
	}
	return buf.WriteByte('}')
}
