// field.go: tagged-union field values attached to a record
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package ember

import (
	"fmt"
	"math"
)

type kind uint8

const (
	kindString kind = iota
	kindInt64
	kindUint64
	kindFloat64
	kindBool
	kindNull
	kindRedacted
)

// redactTag names the original type of a value that got redacted, so the
// sentinel rendering can say what shape of data was withheld.
type redactTag uint8

const (
	redactString redactTag = iota
	redactInt
	redactUint
	redactFloat
	redactAny
)

func (t redactTag) String() string {
	switch t {
	case redactString:
		return "string"
	case redactInt:
		return "int"
	case redactUint:
		return "uint"
	case redactFloat:
		return "float"
	default:
		return "any"
	}
}

const maxFieldKeyLen = 255
const maxFieldStringLen = 1 << 20 // 1 MiB

// Field is an immutable {key, value} pair. Construct one with the typed
// factory functions below; the zero Field is a string field with an empty
// key and an empty value and is never produced by the factories (they all
// validate the key).
type Field struct {
	Key string
	T   kind
	I64 int64
	U64 uint64
	F64 float64
	Str string
	tag redactTag // meaningful only when T == kindRedacted
	hint string    // optional, meaningful only when T == kindRedacted
}

func validKey(key string) bool {
	return len(key) >= 1 && len(key) <= maxFieldKeyLen
}

// checkKey panics if key is empty or longer than maxFieldKeyLen. Every
// factory below calls this before building its Field; a bad key is a
// programmer error at the call site, not a runtime condition to recover
// from, so it fails loudly instead of producing a silently-unusable field.
func checkKey(key string) {
	if !validKey(key) {
		panic(fmt.Sprintf("ember: field key %q has invalid length %d, want 1..%d", key, len(key), maxFieldKeyLen))
	}
}

// Str constructs a string field. Values longer than 1 MiB are truncated;
// construction is infallible.
func Str(key, value string) Field {
	checkKey(key)
	if len(value) > maxFieldStringLen {
		value = value[:maxFieldStringLen]
	}
	return Field{Key: key, T: kindString, Str: value}
}

// Int constructs a signed-integer field.
func Int(key string, value int) Field {
	checkKey(key)
	return Field{Key: key, T: kindInt64, I64: int64(value)}
}

// Int64 constructs a signed 64-bit integer field.
func Int64(key string, value int64) Field {
	checkKey(key)
	return Field{Key: key, T: kindInt64, I64: value}
}

// Uint64 constructs an unsigned 64-bit integer field.
func Uint64(key string, value uint64) Field {
	checkKey(key)
	return Field{Key: key, T: kindUint64, U64: value}
}

// Float64 constructs a floating-point field. NaN and +/-Inf are not finite
// and are coerced to 0 to satisfy the "finite" invariant rather than
// producing malformed JSON downstream.
func Float64(key string, value float64) Field {
	checkKey(key)
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	return Field{Key: key, T: kindFloat64, F64: value}
}

// Bool constructs a boolean field.
func Bool(key string, value bool) Field {
	checkKey(key)
	f := Field{Key: key, T: kindBool}
	if value {
		f.I64 = 1
	}
	return f
}

// Null constructs a null field.
func Null(key string) Field {
	checkKey(key)
	return Field{Key: key, T: kindNull}
}

// Secret redacts a string value, carrying the "string" tag.
func Secret(key, value string) Field {
	checkKey(key)
	return Field{Key: key, T: kindRedacted, Str: value, tag: redactString}
}

// SecretInt64 redacts a signed-integer value.
func SecretInt64(key string, value int64) Field {
	checkKey(key)
	return Field{Key: key, T: kindRedacted, I64: value, tag: redactInt}
}

// SecretUint64 redacts an unsigned-integer value.
func SecretUint64(key string, value uint64) Field {
	checkKey(key)
	return Field{Key: key, T: kindRedacted, U64: value, tag: redactUint}
}

// SecretFloat64 redacts a floating-point value.
func SecretFloat64(key string, value float64) Field {
	checkKey(key)
	return Field{Key: key, T: kindRedacted, F64: value, tag: redactFloat}
}

// SecretHint redacts an arbitrary value with an additional non-sensitive
// hint string (e.g. a key prefix), carrying the "any" tag.
func SecretHint(key, hint string) Field {
	checkKey(key)
	return Field{Key: key, T: kindRedacted, tag: redactAny, hint: hint}
}

func (f Field) isBoolTrue() bool { return f.I64 != 0 }
