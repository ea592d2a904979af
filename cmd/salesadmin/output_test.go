package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestWriteJSONLine(t *testing.T) {
	var buf bytes.Buffer
	if err := writeJSONLine(&buf, map[string]any{"note": "a<b&c"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := buf.String()
	if !strings.HasSuffix(got, "\n") {
		t.Fatalf("output not newline-terminated: %q", got)
	}
	if !strings.Contains(got, "a<b&c") {
		t.Fatalf("HTML escaping should be off, got %q", got)
	}
}

func TestExitCode(t *testing.T) {
	if got := exitCode(nil); got != exitOK {
		t.Fatalf("exitCode(nil) = %d, want %d", got, exitOK)
	}
	wrapped := fmt.Errorf("outer: %w", withCode(exitSafetyNet, errors.New("inner")))
	if got := exitCode(wrapped); got != exitSafetyNet {
		t.Fatalf("exitCode(wrapped) = %d, want %d", got, exitSafetyNet)
	}
	if got := exitCode(errors.New("plain")); got != 1 {
		t.Fatalf("exitCode(plain) = %d, want 1", got)
	}
}
