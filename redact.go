// redact.go: compile-time and runtime redaction key sets
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package ember

import "sync"

// RedactionPolicy decides, per field key, whether a value's serialized form
// should be replaced by a sentinel. The compile-time set is fixed at
// construction (from Config.RedactedFields); the runtime set can be grown
// or shrunk afterward and is safe for concurrent use.
type RedactionPolicy struct {
	compile map[string]struct{}
	runtime sync.Map // string -> struct{}
}

// NewRedactionPolicy builds a policy whose compile-time set is keys.
func NewRedactionPolicy(keys []string) *RedactionPolicy {
	p := &RedactionPolicy{compile: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		p.compile[k] = struct{}{}
	}
	return p
}

// ShouldRedact reports whether key is in either the compile-time or the
// runtime set. Never allocates, never panics.
func (p *RedactionPolicy) ShouldRedact(key string) bool {
	if p == nil {
		return false
	}
	if _, ok := p.compile[key]; ok {
		return true
	}
	_, ok := p.runtime.Load(key)
	return ok
}

// AddRuntimeKey adds key to the runtime set.
func (p *RedactionPolicy) AddRuntimeKey(key string) {
	if p == nil {
		return
	}
	p.runtime.Store(key, struct{}{})
}

// RemoveRuntimeKey removes key from the runtime set. Keys in the
// compile-time set are unaffected (they can never be un-redacted).
func (p *RedactionPolicy) RemoveRuntimeKey(key string) {
	if p == nil {
		return
	}
	p.runtime.Delete(key)
}

// sentinelCompact renders the compact-format sentinel for a redacted field.
func sentinelCompact(buf *scratchBuffer, f Field) bool {
	if !buf.WriteString(`"[REDACTED:`) {
		return false
	}
	if !buf.WriteString(f.tag.String()) {
		return false
	}
	if f.hint != "" {
		if !buf.WriteByte(':') {
			return false
		}
		if !buf.WriteString(f.hint) {
			return false
		}
	}
	return buf.WriteString(`]"`)
}
