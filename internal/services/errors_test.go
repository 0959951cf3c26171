package services

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	err := Wrap(ErrTimeout, "silence", "detect", "window scan", errors.New("context deadline exceeded"))
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected wrapped error to match marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "silence: detect: window scan") {
		t.Fatalf("expected component detail, got %q", err.Error())
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := Wrap(nil, "", "", "", nil)
	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestIsFatalClassification(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		fatal bool
	}{
		{"nil", nil, false},
		{"timeout", Wrap(ErrTimeout, "silence", "detect", "", nil), false},
		{"tool", Wrap(ErrExternalTool, "cut", "extract", "", nil), false},
		{"validation", Wrap(ErrValidation, "probe", "duration", "", nil), true},
		{"storage", Wrap(ErrStorage, "planner", "checkpoint", "", nil), true},
		{"configuration", Wrap(ErrConfiguration, "planner", "lock", "", nil), true},
	}
	for _, tc := range cases {
		if got := IsFatal(tc.err); got != tc.fatal {
			t.Fatalf("%s: IsFatal = %v, want %v", tc.name, got, tc.fatal)
		}
	}
}
