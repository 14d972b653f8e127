// record.go: compact-format record assembly
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package ember

import (
	"github.com/agilira/go-timecache"
)

// formatCompact assembles one compact-format JSON line into buf:
//   {"level":"<UPPER>","msg":"<escaped>","trace":"<32hex>","span":"<16hex>","ts":<ms>,"tid":<thread>,"<k>":<v>,...}\n
// Returns false if the record overflowed buf's capacity; the caller must
// discard the buffer's contents entirely in that case, not write a partial
// line.
func formatCompact(buf *scratchBuffer, level Level, msg string, tc *TraceContext, threadID int64, fields []Field, maxFields int, policy *RedactionPolicy, simd bool) bool {
	ok := buf.WriteByte('{') &&
		buf.WriteString(`"level":"`) && buf.WriteString(level.Upper()) && buf.WriteString(`",`) &&
		buf.WriteString(`"msg":"`) && escapeInto(buf, msg, simd) && buf.WriteByte('"')
	if !ok {
		return false
	}
	if tc != nil {
		if !(buf.WriteString(`,"trace":"`) && buf.WriteString(tc.TraceIDHex()) &&
			buf.WriteString(`","span":"`) && buf.WriteString(tc.SpanIDHex()) && buf.WriteByte('"')) {
			return false
		}
	}
	nowNs := timecache.CachedTimeNano()
	if !(buf.WriteString(`,"ts":`) && buf.WriteInt64(nowNs/1_000_000)) {
		return false
	}
	if !(buf.WriteString(`,"tid":`) && buf.WriteInt64(threadID)) {
		return false
	}
	n := len(fields)
	if n > maxFields {
		n = maxFields
	}
	for _, f := range fields[:n] {
		if !buf.WriteByte(',') {
			return false
		}
		if !(buf.WriteByte('"') && escapeInto(buf, f.Key, simd) && buf.WriteString(`":`)) {
			return false
		}
		if !writeFieldValue(buf, f, policy, simd) {
			return false
		}
	}
	if !(buf.WriteByte('}') && buf.WriteByte('\n')) {
		return false
	}
	return !buf.Overflowed()
}

// writeFieldValue writes just the value half of "key":value, applying
// redaction first.
func writeFieldValue(buf *scratchBuffer, f Field, policy *RedactionPolicy, simd bool) bool {
	if f.T != kindRedacted && policy.ShouldRedact(f.Key) {
		f = Field{Key: f.Key, T: kindRedacted, Str: f.Str, I64: f.I64, U64: f.U64, F64: f.F64, tag: tagFor(f.T)}
	}
	switch f.T {
	case kindString:
		return buf.WriteByte('"') && escapeInto(buf, f.Str, simd) && buf.WriteByte('"')
	case kindInt64:
		return buf.WriteInt64(f.I64)
	case kindUint64:
		return buf.WriteUint64(f.U64)
	case kindFloat64:
		return buf.WriteFloat64Fixed5(f.F64)
	case kindBool:
		if f.isBoolTrue() {
			return buf.WriteString("true")
		}
		return buf.WriteString("false")
	case kindNull:
		return buf.WriteString("null")
	case kindRedacted:
		return sentinelCompact(buf, f)
	default:
		return buf.WriteString("null")
	}
}

func tagFor(k kind) redactTag {
	switch k {
	case kindString:
		return redactString
	case kindInt64:
		return redactInt
	case kindUint64:
		return redactUint
	case kindFloat64:
		return redactFloat
	default:
		return redactAny
	}
}
