// trace.go: W3C-style trace context
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package ember

import (
	"crypto/rand"
	"encoding/hex"
)

// TraceFlags is the 8-bit flags byte; bit 0 is the sampled flag, the rest
// are reserved zero.
type TraceFlags uint8

const sampledBit TraceFlags = 0x01

// IsSampled reports whether the sampled bit is set.
func (f TraceFlags) IsSampled() bool { return f&sampledBit != 0 }

// WithSampled returns f with the sampled bit set or cleared.
func WithSampled(sampled bool) TraceFlags {
	if sampled {
		return sampledBit
	}
	return 0
}

// TraceContext is a W3C-compatible 128-bit trace id / 64-bit span id pair
// with cached lowercase-hex renderings. Never all-zero by construction.
type TraceContext struct {
	Version      uint8
	TraceID      [16]byte
	SpanID       [8]byte
	Flags        TraceFlags
	traceIDHex   string
	spanIDHex    string
	parentHex    string
	hasParent    bool
}

func fillRandomNonZero(b []byte) {
	if _, err := rand.Read(b); err != nil {
		// crypto/rand.Read failing is effectively unrecoverable on any
		// real target; fall back to a fixed non-zero pattern rather than
		// silently emitting an all-zero id.
		for i := range b {
			b[i] = 0x01
		}
		return
	}
	allZero := true
	for _, c := range b {
		if c != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		b[len(b)-1] = 1
	}
}

// NewTraceContext generates a fresh trace id and span id and reports the
// sampled flag.
func NewTraceContext(sampled bool) *TraceContext {
	tc := &TraceContext{Flags: WithSampled(sampled)}
	fillRandomNonZero(tc.TraceID[:])
	fillRandomNonZero(tc.SpanID[:])
	tc.traceIDHex = hex.EncodeToString(tc.TraceID[:])
	tc.spanIDHex = hex.EncodeToString(tc.SpanID[:])
	return tc
}

// TraceIDHex returns the cached 32-char lowercase-hex trace id.
func (tc *TraceContext) TraceIDHex() string { return tc.traceIDHex }

// SpanIDHex returns the cached 16-char lowercase-hex span id.
func (tc *TraceContext) SpanIDHex() string { return tc.spanIDHex }

// ParentSpanIDHex returns the cached parent span id hex, if this context
// was derived via CreateChildTraceContext.
func (tc *TraceContext) ParentSpanIDHex() (string, bool) { return tc.parentHex, tc.hasParent }

// CreateChildTraceContext preserves the trace id, generates a fresh span
// id, records the parent's span id, and applies the given sampled flag.
func (tc *TraceContext) CreateChildTraceContext(sampled bool) *TraceContext {
	child := &TraceContext{
		Version:   tc.Version,
		TraceID:   tc.TraceID,
		Flags:     WithSampled(sampled),
		parentHex: tc.spanIDHex,
		hasParent: true,
	}
	fillRandomNonZero(child.SpanID[:])
	child.traceIDHex = tc.traceIDHex
	child.spanIDHex = hex.EncodeToString(child.SpanID[:])
	return child
}

// SampleTraceID decides sampling from the trace id's last byte: rate 0
// never samples, rate 100 always samples.
func SampleTraceID(traceID [16]byte, ratePercent int) bool {
	if ratePercent <= 0 {
		return false
	}
	if ratePercent >= 100 {
		return true
	}
	threshold := byte((ratePercent * 256) / 100)
	return traceID[15] < threshold
}
