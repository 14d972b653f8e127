// buffer.go: pooled fixed-capacity scratch buffer for record assembly
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package ember

import (
	"strconv"
	"sync"
)

// scratchBuffer is the Go stand-in for a "fixed stack buffer of size
// Config.buffer_size": Go cannot size-parameterize a true stack array at
// runtime, so this is a pooled byte slice that is capped at construction
// and never grows past that cap. Every Write* method returns false the
// moment the write would exceed capacity, and once that happens the buffer
// is poisoned (overflowed latches true) so the formatter can drop the whole
// record rather than emit a partial one.
type scratchBuffer struct {
	buf        []byte
	overflowed bool
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuffer{} },
}

// getScratch returns a buffer whose backing array has at least capacity
// bytes of room, reset to empty.
func getScratch(capacity int) *scratchBuffer {
	b := scratchPool.Get().(*scratchBuffer)
	if cap(b.buf) < capacity {
		b.buf = make([]byte, 0, capacity)
	} else {
		b.buf = b.buf[:0]
	}
	b.overflowed = false
	return b
}

// putScratch returns b to the pool. Oversized backing arrays are replaced
// so one giant record doesn't pin memory for the pool's lifetime.
func putScratch(b *scratchBuffer) {
	if b == nil {
		return
	}
	if cap(b.buf) > maxBufferSize*4 {
		b.buf = nil
	}
	b.buf = b.buf[:0]
	b.overflowed = false
	scratchPool.Put(b)
}

func (b *scratchBuffer) room(n int) bool {
	return !b.overflowed && len(b.buf)+n <= cap(b.buf)
}

// Write appends p verbatim, or marks the buffer overflowed and returns
// false if that would exceed capacity.
func (b *scratchBuffer) Write(p []byte) bool {
	if !b.room(len(p)) {
		b.overflowed = true
		return false
	}
	b.buf = append(b.buf, p...)
	return true
}

// WriteString appends s verbatim.
func (b *scratchBuffer) WriteString(s string) bool {
	if !b.room(len(s)) {
		b.overflowed = true
		return false
	}
	b.buf = append(b.buf, s...)
	return true
}

// WriteByte appends a single byte.
func (b *scratchBuffer) WriteByte(c byte) bool {
	if !b.room(1) {
		b.overflowed = true
		return false
	}
	b.buf = append(b.buf, c)
	return true
}

// WriteInt64 appends the base-10 decimal rendering of v.
func (b *scratchBuffer) WriteInt64(v int64) bool {
	var tmp [20]byte
	out := strconv.AppendInt(tmp[:0], v, 10)
	return b.Write(out)
}

// WriteUint64 appends the base-10 decimal rendering of v.
func (b *scratchBuffer) WriteUint64(v uint64) bool {
	var tmp [20]byte
	out := strconv.AppendUint(tmp[:0], v, 10)
	return b.Write(out)
}

// WriteFloat64Fixed5 appends v with exactly 5 fractional digits.
func (b *scratchBuffer) WriteFloat64Fixed5(v float64) bool {
	var tmp [32]byte
	out := strconv.AppendFloat(tmp[:0], v, 'f', 5, 64)
	return b.Write(out)
}

// Overflowed reports whether any write since the last reset exceeded
// capacity.
func (b *scratchBuffer) Overflowed() bool { return b.overflowed }

// Bytes returns the assembled contents. Only meaningful when !Overflowed().
func (b *scratchBuffer) Bytes() []byte { return b.buf }

// Len returns the number of bytes written so far.
func (b *scratchBuffer) Len() int { return len(b.buf) }
