// config.go: compile-time logger configuration
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package ember

import (
	"os"

	"github.com/agilira/go-errors"
)

const (
	minBufferSize   = 256
	maxBufferSize   = 65536
	maxAsyncQueue   = 1 << 20
	maxBatchSize    = 1024
	defaultFlushInterval = 1 // milliseconds
)

// Format selects the wire schema the formatter emits.
type Format uint8

const (
	// FormatCompact emits the house compact-JSON schema.
	FormatCompact Format = iota
	// FormatOTel emits the house compact-JSON schema extended with
	// OTel severity/service identity fields.
	FormatOTel
	// FormatOTelFull emits the full OpenTelemetry resourceLogs-shaped
	// per-record JSON (timeUnixNano/body/attributes/resource/scope).
	FormatOTelFull
)

// Config is a value type captured once at logger construction. Nothing in
// this package offers a way to mutate a Config's fields on a live Logger;
// that is a deliberate scope boundary, not an oversight.
type Config struct {
	// Level is the minimum severity emitted; records below it are dropped
	// before any formatting work happens.
	Level Level

	// MaxFields caps attributes per record; payloads beyond it are
	// truncated, not rejected.
	MaxFields int

	// BufferSize bounds the pooled scratch buffer used to assemble one
	// record. Must be in [256, 65536].
	BufferSize int

	// Format selects the wire schema.
	Format Format

	// AsyncMode selects the async pipeline instead of the synchronous
	// mutex-serialized writer.
	AsyncMode bool

	// AsyncQueueSize bounds the async ring's capacity, rounded up to the
	// next power of two. Must be in [1, 2^20].
	AsyncQueueSize int

	// BatchSize bounds how many contiguous entries the drain loop scans
	// off the ring per pass. Must be in [1, 1024] and <= AsyncQueueSize.
	BatchSize int

	// FlushIntervalMillis caps the drain loop's idle backoff: once nothing
	// is left to pop, it hot-spins, then yields, then sleeps in increasing
	// steps up to this bound before checking the ring again. Recommended
	// 1-100ms. It has no effect while entries keep arriving, since the
	// backoff resets on every non-empty pop.
	FlushIntervalMillis int

	// Backpressure selects drop/block/sample behavior when the async ring
	// is full. Ignored in sync mode.
	Backpressure BackpressurePolicy

	// EnableLogging, if false, makes every emit call a no-op. Checked once
	// at the top of the hot path.
	EnableLogging bool

	// EnableSIMD toggles the wide-vector escape fast path.
	EnableSIMD bool

	// RedactedFields is the compile-time redaction key set.
	RedactedFields []string

	// Output is the byte sink. Defaults to os.Stdout, wrapped as a
	// WriteSyncer.
	Output WriteSyncer

	// ServiceName/ServiceVersion/ServiceNamespace/ServiceInstance feed the
	// OTel Resource when Format is FormatOTel or FormatOTelFull.
	ServiceName      string
	ServiceVersion   string
	ServiceNamespace string
	ServiceInstance  string

	// ScopeName/ScopeVersion feed the OTel InstrumentationScope.
	ScopeName    string
	ScopeVersion string
}

func (c Config) withDefaults() Config {
	if c.MaxFields <= 0 {
		c.MaxFields = 32
	}
	if c.BufferSize <= 0 {
		c.BufferSize = 4096
	}
	if c.BufferSize < minBufferSize {
		c.BufferSize = minBufferSize
	}
	if c.BufferSize > maxBufferSize {
		c.BufferSize = maxBufferSize
	}
	if c.AsyncQueueSize <= 0 {
		c.AsyncQueueSize = 4096
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 32
	}
	if c.FlushIntervalMillis <= 0 {
		c.FlushIntervalMillis = defaultFlushInterval
	}
	if c.Output == nil {
		c.Output = WrapWriter(os.Stdout)
	}
	if c.ScopeName == "" {
		c.ScopeName = "ember"
	}
	if c.ServiceName == "" {
		c.ServiceName = "unknown_service"
	}
	return c
}

// NewConfig returns a Config with every field at its documented default,
// including EnableLogging: true. Config{} (the zero value) leaves
// EnableLogging false, which silently no-ops every emit call; use NewConfig
// when that isn't what you want.
func NewConfig() Config {
	c := Config{EnableLogging: true}
	return c.withDefaults()
}

// Validate reports a structural problem with c, or nil if c is usable.
func (c Config) Validate() *errors.Error {
	if !c.Level.IsValid() {
		return newFieldError(ErrCodeInvalidLevel, "level out of range", "level", int(c.Level))
	}
	if c.BufferSize != 0 && (c.BufferSize < minBufferSize || c.BufferSize > maxBufferSize) {
		return newFieldError(ErrCodeInvalidConfig, "buffer size out of range", "buffer_size", c.BufferSize)
	}
	if c.AsyncQueueSize != 0 && c.AsyncQueueSize > maxAsyncQueue {
		return newFieldError(ErrCodeInvalidConfig, "async queue size too large", "async_queue_size", c.AsyncQueueSize)
	}
	if c.BatchSize != 0 && c.BatchSize > maxBatchSize {
		return newFieldError(ErrCodeInvalidConfig, "batch size too large", "batch_size", c.BatchSize)
	}
	if c.AsyncMode && c.BatchSize > c.AsyncQueueSize && c.AsyncQueueSize != 0 {
		return newFieldError(ErrCodeInvalidConfig, "batch size exceeds queue size", "batch_size", c.BatchSize)
	}
	return nil
}

// Clone returns a value copy of c, including a fresh backing array for
// RedactedFields so the caller's slice can be mutated afterward without
// affecting the logger.
func (c Config) Clone() Config {
	out := c
	if len(c.RedactedFields) > 0 {
		out.RedactedFields = append([]string(nil), c.RedactedFields...)
	}
	return out
}
