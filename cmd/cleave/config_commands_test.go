package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitWritesSample(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "config.toml")

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"config", "init", "--path", target})

	if err := root.Execute(); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("sample config missing: %v", err)
	}
	for _, section := range []string{"[paths]", "[segmentation]", "[separation]", "[logging]"} {
		if !strings.Contains(string(data), section) {
			t.Fatalf("sample config missing section %s", section)
		}
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("# existing\n"), 0o644); err != nil {
		t.Fatalf("seed existing config: %v", err)
	}

	root := newRootCommand()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"config", "init", "--path", target})

	if err := root.Execute(); err == nil {
		t.Fatal("expected refusal without --overwrite")
	}
}

func TestConfigShowPrintsResolvedConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"config", "show"})

	if err := root.Execute(); err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	rendered := out.String()
	if !strings.Contains(rendered, "interval_minutes") || !strings.Contains(rendered, "[tools]") {
		t.Fatalf("unexpected config show output:\n%s", rendered)
	}
}
