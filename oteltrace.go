// oteltrace.go: interop with go.opentelemetry.io/otel/trace.SpanContext
//
// Supplements the from-scratch TraceContext with a converter for callers
// that already propagate trace context via the OpenTelemetry SDK, so they
// can still produce this core's wire-format records without maintaining
// two parallel trace-id representations.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package ember

import (
	"context"

	"go.opentelemetry.io/otel/baggage"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const maxBaggageFields = 10

// BaggageFields extracts up to maxBaggageFields OTel baggage members from
// ctx as "baggage.<key>" string Fields, for callers who want distributed
// context surfaced on every record without re-extracting it per call.
func BaggageFields(ctx context.Context) []Field {
	bag := baggage.FromContext(ctx)
	members := bag.Members()
	if len(members) == 0 {
		return nil
	}
	n := len(members)
	if n > maxBaggageFields {
		n = maxBaggageFields
	}
	fields := make([]Field, 0, n)
	for _, m := range members[:n] {
		fields = append(fields, Str("baggage."+m.Key(), m.Value()))
	}
	return fields
}

// TraceContextFromOTel converts an OTel SpanContext into our TraceContext.
// Returns false if sc is invalid.
func TraceContextFromOTel(sc oteltrace.SpanContext) (*TraceContext, bool) {
	if !sc.IsValid() {
		return nil, false
	}
	tc := &TraceContext{
		TraceID:    sc.TraceID(),
		SpanID:     sc.SpanID(),
		Flags:      WithSampled(sc.IsSampled()),
		traceIDHex: sc.TraceID().String(),
		spanIDHex:  sc.SpanID().String(),
	}
	return tc, true
}

// AsOTelSpanContext converts tc into an OTel SpanContext usable for further
// propagation.
func AsOTelSpanContext(tc *TraceContext) oteltrace.SpanContext {
	var flags oteltrace.TraceFlags
	if tc.Flags.IsSampled() {
		flags = oteltrace.FlagsSampled
	}
	return oteltrace.NewSpanContext(oteltrace.SpanContextConfig{
		TraceID:    tc.TraceID,
		SpanID:     tc.SpanID,
		TraceFlags: flags,
	})
}

// TraceContextFromContext extracts the active OTel span from ctx and
// converts it, mirroring the extraction pattern used for baggage above:
// extract once at a boundary, not per log call.
func TraceContextFromContext(ctx context.Context) (*TraceContext, bool) {
	span := oteltrace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return nil, false
	}
	return TraceContextFromOTel(span.SpanContext())
}
