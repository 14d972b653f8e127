package ember

import (
	"strings"
	"testing"

	"github.com/agilira/go-errors"
)

func TestErrorCodes_AllCarryEmberPrefix(t *testing.T) {
	codes := []errors.ErrorCode{
		ErrCodeInvalidConfig, ErrCodeInvalidLevel, ErrCodeBufferOverflow,
		ErrCodeRingInvalidCap, ErrCodeRingClosed, ErrCodeSpanStackOverflow,
		ErrCodeSpanStackUnderflow, ErrCodeSpanAlreadyEnded, ErrCodeSpanNotLIFO,
		ErrCodeAsyncSetupFailed, ErrCodePipelineClosed, ErrCodePipelineState,
	}
	for _, c := range codes {
		if !strings.HasPrefix(string(c), "EMBER_") {
			t.Errorf("code %q missing EMBER_ prefix", c)
		}
	}
}

func TestSetErrorHandler_NilRestoresDefault(t *testing.T) {
	var called bool
	SetErrorHandler(func(err *errors.Error) { called = true })
	handleError(newError(ErrCodeAsyncSetupFailed, "test"))
	if !called {
		t.Error("custom handler was not invoked")
	}
	SetErrorHandler(nil)
	// restored to default; just confirm it doesn't panic
	handleError(newError(ErrCodeAsyncSetupFailed, "test"))
}

func TestNewFieldError_CarriesField(t *testing.T) {
	err := newFieldError(ErrCodeInvalidConfig, "bad", "buffer_size", 12)
	if err == nil {
		t.Fatal("expected a non-nil error")
	}
	if !errors.HasCode(err, ErrCodeInvalidConfig) {
		t.Error("expected error to carry ErrCodeInvalidConfig")
	}
}
