package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewBuildsBothFormats(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := New(format)
		if err != nil {
			t.Fatalf("New(%q): %v", format, err)
		}
		_ = l.Sync()
	}
}

func TestNamedWithNilBaseIsNop(t *testing.T) {
	l := Named(nil, "store")
	if l == nil {
		t.Fatalf("expected nop logger")
	}
	l.Info("dropped")
}

func TestNamedAddsComponent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	Named(zap.New(core), "http").Info("hello")

	entries := logs.All()
	if len(entries) != 1 || entries[0].LoggerName != "http" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}
