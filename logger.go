// logger.go: the Logger type tying level filtering, formatting, and the
// sync/async writer split together
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package ember

import (
	"sync"
	"time"
)

// Logger bundles a byte sink, the effective level, a redaction policy, and
// either a mutex (sync mode) or an AsyncPipeline (async mode). The zero
// value is not usable; construct with New.
type Logger struct {
	cfg      Config
	level    *AtomicLevel
	policy   *RedactionPolicy
	resource Resource
	scope    InstrumentationScope

	mu     *sync.Mutex // sync mode only; shared across a logger and its With() children
	output WriteSyncer

	async *AsyncPipeline // nil in sync mode

	preFields []Field
}

// New constructs a Logger from cfg. In async mode it also starts the drain
// goroutine; Close must be called to stop it and flush pending entries.
func New(cfg Config) (*Logger, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l := &Logger{
		cfg:    cfg,
		level:  NewAtomicLevel(cfg.Level),
		policy: NewRedactionPolicy(cfg.RedactedFields),
		mu:     &sync.Mutex{},
		output: cfg.Output,
		resource: Resource{
			ServiceName:    cfg.ServiceName,
			ServiceVersion: cfg.ServiceVersion,
		},
		scope: InstrumentationScope{Name: cfg.ScopeName, Version: cfg.ScopeVersion},
	}
	if cfg.AsyncMode {
		pipeline, err := NewAsyncPipeline(cfg, cfg.Output)
		if err != nil {
			return nil, err
		}
		l.async = pipeline
	}
	return l, nil
}

// Level returns the logger's floor. There is no corresponding setter: level
// is fixed at construction per the core's no-dynamic-reconfiguration
// contract.
func (l *Logger) Level() Level { return l.level.Load() }

// RedactionPolicy exposes the mutable runtime redaction set.
func (l *Logger) RedactionPolicy() *RedactionPolicy { return l.policy }

// With returns a child Logger that prepends fields to every subsequent
// call. The parent is unaffected.
func (l *Logger) With(fields ...Field) *Logger {
	child := *l
	merged := make([]Field, 0, len(l.preFields)+len(fields))
	merged = append(merged, l.preFields...)
	merged = append(merged, fields...)
	child.preFields = merged
	return &child
}

func (l *Logger) log(level Level, tc *TraceContext, msg string, fields ...Field) {
	if !l.cfg.EnableLogging || !level.Enabled(l.level.Load()) {
		return
	}
	all := fields
	if len(l.preFields) > 0 {
		all = make([]Field, 0, len(l.preFields)+len(fields))
		all = append(all, l.preFields...)
		all = append(all, fields...)
	}

	tid := currentGoroutineID()
	buf := getScratch(l.cfg.BufferSize)
	var ok bool
	switch l.cfg.Format {
	case FormatOTel:
		ok = formatOTelCompact(buf, level, msg, tc, tid, all, l.cfg.MaxFields, l.policy, l.cfg.EnableSIMD, l.resource)
	case FormatOTelFull:
		rec := LogRecord{
			Level:      level,
			Body:       msg,
			Attributes: all,
			Trace:      tc,
			Resource:   l.resource,
			Scope:      l.scope,
		}
		ok = formatOTelRecord(buf, rec, l.cfg.MaxFields, l.policy, l.cfg.EnableSIMD)
	default:
		ok = formatCompact(buf, level, msg, tc, tid, all, l.cfg.MaxFields, l.policy, l.cfg.EnableSIMD)
	}
	if !ok {
		putScratch(buf)
		return
	}

	if l.async != nil {
		l.async.Enqueue(level, buf.Bytes())
		putScratch(buf)
		return
	}

	l.mu.Lock()
	_, _ = l.output.Write(buf.Bytes())
	l.mu.Unlock()
	putScratch(buf)
}

// Trace, Debug, Info, Warn, Err, Fatal emit at their respective levels with
// no trace-context correlation attached.
func (l *Logger) Trace(msg string, fields ...Field) { l.log(TraceLevel, nil, msg, fields...) }
func (l *Logger) Debug(msg string, fields ...Field) { l.log(DebugLevel, nil, msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.log(InfoLevel, nil, msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, nil, msg, fields...) }
func (l *Logger) Err(msg string, fields ...Field)   { l.log(ErrLevel, nil, msg, fields...) }
func (l *Logger) Fatal(msg string, fields ...Field) { l.log(FatalLevel, nil, msg, fields...) }

// WithTrace returns a Logger that attaches tc to every subsequent call.
func (l *Logger) WithTrace(tc *TraceContext) *TracedLogger {
	return &TracedLogger{logger: l, trace: tc}
}

// TracedLogger is a Logger bound to a fixed TraceContext.
type TracedLogger struct {
	logger *Logger
	trace  *TraceContext
}

func (t *TracedLogger) Trace(msg string, fields ...Field) { t.logger.log(TraceLevel, t.trace, msg, fields...) }
func (t *TracedLogger) Debug(msg string, fields ...Field) { t.logger.log(DebugLevel, t.trace, msg, fields...) }
func (t *TracedLogger) Info(msg string, fields ...Field)  { t.logger.log(InfoLevel, t.trace, msg, fields...) }
func (t *TracedLogger) Warn(msg string, fields ...Field)  { t.logger.log(WarnLevel, t.trace, msg, fields...) }
func (t *TracedLogger) Err(msg string, fields ...Field)   { t.logger.log(ErrLevel, t.trace, msg, fields...) }
func (t *TracedLogger) Fatal(msg string, fields ...Field) { t.logger.log(FatalLevel, t.trace, msg, fields...) }

// Sync flushes the underlying sink (and, in async mode, drains pending
// entries first).
func (l *Logger) Sync() error {
	if l.async != nil {
		_ = l.async.Flush(5 * time.Second)
	}
	return l.output.Sync()
}

// Close tears down the async pipeline (if any) and performs a final
// synchronous drain. Safe to call once; a second call is a no-op.
func (l *Logger) Close() error {
	if l.async == nil {
		return nil
	}
	return l.async.Close()
}

// Metrics returns the async pipeline's counters, or the zero value in sync
// mode.
func (l *Logger) Metrics() PipelineMetrics {
	if l.async == nil {
		return PipelineMetrics{}
	}
	return l.async.Metrics()
}
