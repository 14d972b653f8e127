// goid.go: per-call goroutine identifier used to populate tid on records
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package ember

import (
	"runtime"
	"strconv"
	"sync"
)

var goroutineIDBufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 64)
		return &b
	},
}

// currentGoroutineID parses the numeric id out of runtime.Stack's header
// line ("goroutine 123 [running]:"). Go exposes no public API for this;
// parsing the stack header is the standard way to pull a goroutine id out
// of runtime.Stack output.
func currentGoroutineID() int64 {
	bufp := goroutineIDBufPool.Get().(*[]byte)
	buf := *bufp
	n := runtime.Stack(buf, false)
	id := parseGoroutineID(buf[:n])
	goroutineIDBufPool.Put(bufp)
	return id
}

func parseGoroutineID(b []byte) int64 {
	const prefix = "goroutine "
	if len(b) <= len(prefix) || string(b[:len(prefix)]) != prefix {
		return 0
	}
	b = b[len(prefix):]
	i := 0
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}
	id, err := strconv.ParseInt(string(b[:i]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
