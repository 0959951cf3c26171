package deps

import (
	"os"
	"path/filepath"
	"testing"

	"cleave/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	if err := os.WriteFile(present, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available {
		t.Fatal("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatal("expected detail message for missing binary")
	}
}

func TestRequirementsSkipsDemucsWhenSeparationDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Separation.Enabled = false
	for _, req := range Requirements(&cfg) {
		if req.Name == "Demucs" {
			t.Fatal("expected demucs requirement to be omitted when separation is disabled")
		}
	}

	cfg.Separation.Enabled = true
	found := false
	for _, req := range Requirements(&cfg) {
		if req.Name == "Demucs" {
			found = true
			if !req.Optional {
				t.Fatal("expected demucs to be optional")
			}
		}
	}
	if !found {
		t.Fatal("expected demucs requirement when separation is enabled")
	}
}

func TestMissingRequired(t *testing.T) {
	statuses := []Status{
		{Name: "FFmpeg", Available: false},
		{Name: "Demucs", Available: false, Optional: true},
		{Name: "FFprobe", Available: true},
	}
	missing := MissingRequired(statuses)
	if len(missing) != 1 || missing[0] != "FFmpeg" {
		t.Fatalf("unexpected missing set: %v", missing)
	}
}
