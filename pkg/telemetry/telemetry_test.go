package telemetry

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{input: "trace", want: zerolog.TraceLevel},
		{input: "debug", want: zerolog.DebugLevel},
		{input: "info", want: zerolog.InfoLevel},
		{input: "warn", want: zerolog.WarnLevel},
		{input: "error", want: zerolog.ErrorLevel},
		{input: "fatal", want: zerolog.FatalLevel},
		{input: "bogus", want: zerolog.InfoLevel},
		{input: "", want: zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.input); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDisabledMetricsAreNoOps(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})

	// None of these may panic on the no-op instance.
	m.RecordSyncStarted("alpha")
	m.RecordSyncCompleted("alpha", "success", time.Second)
	m.RecordArchiveOperation("prepare", "success")
	m.SetLastSyncedBlock("alpha", 100)
	m.RecordError("fatal")

	if m.Handler() != nil {
		t.Error("Expected nil handler when metrics are disabled")
	}
}

func TestEnabledMetricsExposeHandler(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, Namespace: "localdb"})

	m.RecordSyncStarted("alpha")
	m.RecordSyncCompleted("alpha", "success", time.Second)
	m.RecordError("fatal")

	if m.Handler() == nil {
		t.Error("Expected a handler when metrics are enabled")
	}
}

func TestComponentLoggerChaining(t *testing.T) {
	log := Nop().NewComponentLogger("sync").
		WithRunID("run-1").WithOrderbook("alpha").WithChainID(1).
		WithField("extra", 42)
	if log == nil {
		t.Fatal("Expected derived logger")
	}
	log.Info("discarded")
}
