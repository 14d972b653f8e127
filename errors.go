// errors.go: structured error values for the ember logging core
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package ember

import (
	"fmt"
	"os"
	"strings"

	"github.com/agilira/go-errors"
)

// Error codes are grouped by subsystem. Every code carries the EMBER_ prefix;
// this is asserted once at init so a typo never ships silently.
const (
	ErrCodeInvalidConfig      errors.ErrorCode = "EMBER_INVALID_CONFIG"
	ErrCodeInvalidLevel       errors.ErrorCode = "EMBER_INVALID_LEVEL"
	ErrCodeBufferOverflow     errors.ErrorCode = "EMBER_BUFFER_OVERFLOW"
	ErrCodeRingInvalidCap     errors.ErrorCode = "EMBER_RING_INVALID_CAPACITY"
	ErrCodeRingClosed         errors.ErrorCode = "EMBER_RING_CLOSED"
	ErrCodeSpanStackOverflow  errors.ErrorCode = "EMBER_SPAN_STACK_OVERFLOW"
	ErrCodeSpanStackUnderflow errors.ErrorCode = "EMBER_SPAN_STACK_UNDERFLOW"
	ErrCodeSpanAlreadyEnded   errors.ErrorCode = "EMBER_SPAN_ALREADY_ENDED"
	ErrCodeSpanNotLIFO        errors.ErrorCode = "EMBER_SPAN_NOT_LIFO"
	ErrCodeAsyncSetupFailed   errors.ErrorCode = "EMBER_ASYNC_SETUP_FAILED"
	ErrCodePipelineClosed     errors.ErrorCode = "EMBER_PIPELINE_CLOSED"
	ErrCodePipelineState      errors.ErrorCode = "EMBER_PIPELINE_INVALID_STATE"
)

func init() {
	codes := []errors.ErrorCode{
		ErrCodeInvalidConfig, ErrCodeInvalidLevel, ErrCodeBufferOverflow,
		ErrCodeRingInvalidCap, ErrCodeRingClosed, ErrCodeSpanStackOverflow,
		ErrCodeSpanStackUnderflow, ErrCodeSpanAlreadyEnded, ErrCodeSpanNotLIFO,
		ErrCodeAsyncSetupFailed, ErrCodePipelineClosed, ErrCodePipelineState,
	}
	for _, c := range codes {
		if !strings.HasPrefix(string(c), "EMBER_") {
			panic(fmt.Sprintf("ember: error code %q missing EMBER_ prefix", c))
		}
	}
}

// ErrorHandler receives faults from the logger's own machinery (never the
// caller's log calls, which are infallible). It must not call back into a
// Logger synchronously to avoid recursive faults.
type ErrorHandler func(err *errors.Error)

var currentErrorHandler ErrorHandler = defaultErrorHandler

func defaultErrorHandler(err *errors.Error) {
	fmt.Fprintf(os.Stderr, "ember: %v\n", err)
}

// SetErrorHandler installs a handler for internal faults (sink-open
// failures, ring setup failures). Safe to call before any Logger is built.
func SetErrorHandler(h ErrorHandler) {
	if h == nil {
		h = defaultErrorHandler
	}
	currentErrorHandler = h
}

func handleError(err *errors.Error) {
	currentErrorHandler(err)
}

func newError(code errors.ErrorCode, msg string) *errors.Error {
	return errors.New(code, msg)
}

func newFieldError(code errors.ErrorCode, msg, field string, value interface{}) *errors.Error {
	return errors.NewWithField(code, msg, field, value)
}
