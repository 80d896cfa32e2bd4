package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		logger, err := New(verbose)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if logger == nil {
			t.Fatalf("expected logger instance")
		}
		if got := logger.Core().Enabled(zapcore.DebugLevel); got != verbose {
			t.Errorf("verbose=%v: debug enabled = %v", verbose, got)
		}
		_ = logger.Sync()
	}
}
