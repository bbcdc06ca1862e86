//go:build !integration

package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestKeyValueFields(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", "debug", &buf)
	t.Cleanup(func() { InitWithWriter("production", "info", &bytes.Buffer{}) })

	Info("recompute finished", "students", 3, "mode", "predict")

	out := buf.String()
	for _, want := range []string{`"students":3`, `"mode":"predict"`, `"message":"recompute finished"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log line %q missing %s", out, want)
		}
	}
}

func TestBareErrorIsLoggedAsError(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", "info", &buf)
	t.Cleanup(func() { InitWithWriter("production", "info", &bytes.Buffer{}) })

	Error("Failed to load model", errors.New("boom"))

	if !strings.Contains(buf.String(), `"error":"boom"`) {
		t.Fatalf("expected error field, got %q", buf.String())
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", "info", &buf)

	Debug("hidden")

	if buf.Len() != 0 {
		t.Fatalf("debug line should be filtered, got %q", buf.String())
	}
}
