// otel.go: OpenTelemetry record model and formatter
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package ember

import (
	"os"
	"runtime"

	"github.com/agilira/go-timecache"
)

// Resource describes the producer of a batch of records. ServiceName
// defaults to "unknown_service" when empty, matching the OTel convention.
type Resource struct {
	ServiceName      string
	ServiceVersion   string
	ServiceNamespace string
	ServiceInstance  string

	ProcessPID     int
	ProcessExe     string
	ProcessCommand string
	ProcessRuntime string

	HostName string
	HostID   string
	HostArch string

	OSType    string
	OSName    string
	OSVersion string
}

// DefaultResource builds a Resource auto-populated with process/host/OS
// identity: pid, executable path, Go runtime version, host name, host
// architecture and OS type.
func DefaultResource(serviceName string) Resource {
	if serviceName == "" {
		serviceName = "unknown_service"
	}
	exe, _ := os.Executable()
	host, _ := os.Hostname()
	return Resource{
		ServiceName:    serviceName,
		ProcessPID:     os.Getpid(),
		ProcessExe:     exe,
		ProcessRuntime: runtime.Version(),
		HostName:       host,
		HostArch:       runtime.GOARCH,
		OSType:         runtime.GOOS,
	}
}

// InstrumentationScope identifies the library/module that produced a
// record.
type InstrumentationScope struct {
	Name      string
	Version   string
	SchemaURL string
}

// severityNumber maps a Level to the OTel severity number table.
func severityNumber(l Level) int {
	switch l {
	case TraceLevel:
		return 1
	case DebugLevel:
		return 5
	case InfoLevel:
		return 9
	case WarnLevel:
		return 13
	case ErrLevel:
		return 17
	case FatalLevel:
		return 21
	default:
		return 0
	}
}

// LogRecord is the full OTel-shaped record. Body is the raw message text,
// JSON-escaped by the formatter; Attributes are the same Field slice the
// compact formatter consumes.
type LogRecord struct {
	TimestampNs         int64
	ObservedTimestampNs int64
	Level               Level
	Body                string
	Attributes          []Field
	Trace               *TraceContext
	Resource            Resource
	Scope               InstrumentationScope
}

// formatOTelRecord assembles one OTel-format JSON line into buf.
func formatOTelRecord(buf *scratchBuffer, rec LogRecord, maxFields int, policy *RedactionPolicy, simd bool) bool {
	ts := rec.TimestampNs
	if ts <= 0 {
		ts = timecache.CachedTimeNano()
	}
	obs := rec.ObservedTimestampNs
	if obs <= 0 {
		obs = ts
	}
	ok := buf.WriteString(`{"timeUnixNano":"`) && buf.WriteInt64(ts) && buf.WriteString(`"`) &&
		buf.WriteString(`,"observedTimeUnixNano":"`) && buf.WriteInt64(obs) && buf.WriteString(`"`) &&
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
	if n > 0 {
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
		if !buf.WriteByte(']') {
			return false
		}
	}
	if rec.Trace != nil {
		if !(buf.WriteString(`,"traceId":"`) && buf.WriteString(rec.Trace.TraceIDHex()) &&
			buf.WriteString(`","spanId":"`) && buf.WriteString(rec.Trace.SpanIDHex()) && buf.WriteByte('"') &&
			buf.WriteString(`,"flags":`) && buf.WriteInt64(int64(rec.Trace.Flags))) {
			return false
		}
	}
	if !(buf.WriteString(`,"resource":{"attributes":`) && writeResourceAttrs(buf, rec.Resource, simd) && buf.WriteByte('}')) {
		return false
	}
	if !(buf.WriteString(`,"scope":{"name":"`) && escapeInto(buf, rec.Scope.Name, simd) && buf.WriteByte('"')) {
		return false
	}
	if rec.Scope.Version != "" {
		if !(buf.WriteString(`,"version":"`) && escapeInto(buf, rec.Scope.Version, simd) && buf.WriteByte('"')) {
			return false
		}
	}
	if !(buf.WriteByte('}') && buf.WriteByte('}') && buf.WriteByte('\n')) {
		return false
	}
	return !buf.Overflowed()
}

func writeOTelAttrValue(buf *scratchBuffer, f Field, policy *RedactionPolicy, simd bool) bool {
	if f.T != kindRedacted && policy.ShouldRedact(f.Key) {
		return buf.WriteString(`{"stringValue":"[REDACTED]"}`)
	}
	switch f.T {
	case kindString:
		return buf.WriteString(`{"stringValue":"`) && escapeInto(buf, f.Str, simd) && buf.WriteString(`"}`)
	case kindInt64:
		return buf.WriteString(`{"intValue":"`) && buf.WriteInt64(f.I64) && buf.WriteString(`"}`)
	case kindUint64:
		return buf.WriteString(`{"intValue":"`) && buf.WriteUint64(f.U64) && buf.WriteString(`"}`)
	case kindFloat64:
		return buf.WriteString(`{"doubleValue":`) && buf.WriteFloat64Fixed5(f.F64) && buf.WriteByte('}')
	case kindBool:
		if f.isBoolTrue() {
			return buf.WriteString(`{"boolValue":true}`)
		}
		return buf.WriteString(`{"boolValue":false}`)
	case kindNull:
		return buf.WriteString(`{"stringValue":null}`)
	case kindRedacted:
		return buf.WriteString(`{"stringValue":"[REDACTED]"}`)
	default:
		return buf.WriteString(`{"stringValue":null}`)
	}
}

// formatOTelCompact assembles the "OTel compact" schema: the house compact
// line with severity_number and service identity added, as opposed to the
// full OTel schema formatOTelRecord produces. The two schemas are kept as
// explicitly distinct functions rather than merged into one.
func formatOTelCompact(buf *scratchBuffer, level Level, msg string, tc *TraceContext, threadID int64, fields []Field, maxFields int, policy *RedactionPolicy, simd bool, res Resource) bool {
	ok := buf.WriteByte('{') &&
		buf.WriteString(`"level":"`) && buf.WriteString(level.Upper()) && buf.WriteString(`",`) &&
		buf.WriteString(`"msg":"`) && escapeInto(buf, msg, simd) && buf.WriteByte('"') &&
		buf.WriteString(`,"severity_number":`) && buf.WriteInt64(int64(severityNumber(level)))
	if !ok {
		return false
	}
	nowNs := timecache.CachedTimeNano()
	if !(buf.WriteString(`,"ts":`) && buf.WriteInt64(nowNs/1_000_000) &&
		buf.WriteString(`,"tid":`) && buf.WriteInt64(threadID)) {
		return false
	}
	if tc != nil {
		if !(buf.WriteString(`,"trace":"`) && buf.WriteString(tc.TraceIDHex()) &&
			buf.WriteString(`","span":"`) && buf.WriteString(tc.SpanIDHex()) && buf.WriteByte('"')) {
			return false
		}
	}
	if res.ServiceName != "" {
		if !(buf.WriteString(`,"service.name":"`) && escapeInto(buf, res.ServiceName, simd) && buf.WriteByte('"')) {
			return false
		}
	}
	if res.ServiceVersion != "" {
		if !(buf.WriteString(`,"service.version":"`) && escapeInto(buf, res.ServiceVersion, simd) && buf.WriteByte('"')) {
			return false
		}
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

// writeResourceAttrs emits every non-empty Resource field as an
// {"key":...,"value":{"stringValue"|"intValue":...}} array entry.
func writeResourceAttrs(buf *scratchBuffer, r Resource, simd bool) bool {
	if !buf.WriteByte('[') {
		return false
	}
	first := true
	attr := func(key, value string) bool {
		if value == "" {
			return true
		}
		if !first && !buf.WriteByte(',') {
			return false
		}
		first = false
		return buf.WriteString(`{"key":"`) && buf.WriteString(key) &&
			buf.WriteString(`","value":{"stringValue":"`) && escapeInto(buf, value, simd) && buf.WriteString(`"}}`)
	}
	intAttr := func(key string, value int) bool {
		if value == 0 {
			return true
		}
		if !first && !buf.WriteByte(',') {
			return false
		}
		first = false
		return buf.WriteString(`{"key":"`) && buf.WriteString(key) &&
			buf.WriteString(`","value":{"intValue":"`) && buf.WriteInt64(int64(value)) && buf.WriteString(`"}}`)
	}
	ok := attr("service.name", r.ServiceName) &&
		attr("service.version", r.ServiceVersion) &&
		attr("service.namespace", r.ServiceNamespace) &&
		attr("service.instance.id", r.ServiceInstance) &&
		intAttr("process.pid", r.ProcessPID) &&
		attr("process.executable.path", r.ProcessExe) &&
		attr("process.command", r.ProcessCommand) &&
		attr("process.runtime.version", r.ProcessRuntime) &&
		attr("host.name", r.HostName) &&
		attr("host.id", r.HostID) &&
		attr("host.arch", r.HostArch) &&
		attr("os.type", r.OSType) &&
		attr("os.name", r.OSName) &&
		attr("os.version", r.OSVersion)
	if !ok {
		return false
	}
	return buf.WriteByte(']')
}
