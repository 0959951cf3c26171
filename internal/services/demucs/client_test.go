package demucs

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"cleave/internal/services"
)

func TestNewCLIWithOptions(t *testing.T) {
	cli := NewCLI(WithBinary("/opt/demucs"), WithModel("mdx_extra"))
	if cli.binary != "/opt/demucs" {
		t.Fatalf("expected binary override, got %q", cli.binary)
	}
	if cli.model != "mdx_extra" {
		t.Fatalf("expected model override, got %q", cli.model)
	}
}

func TestIsolateVocalsRequiresArguments(t *testing.T) {
	cli := NewCLI()
	if _, err := cli.IsolateVocals(context.Background(), "", "/tmp"); err == nil {
		t.Fatal("expected error when clip path is empty")
	}
	if _, err := cli.IsolateVocals(context.Background(), "clip.mp3", ""); err == nil {
		t.Fatal("expected error when output directory is empty")
	}
}

func TestIsolateVocalsFindsStem(t *testing.T) {
	outDir := t.TempDir()
	stemDir := filepath.Join(outDir, "htdemucs", "clip")
	if err := os.MkdirAll(stemDir, 0o755); err != nil {
		t.Fatalf("mkdir stem dir: %v", err)
	}
	vocals := filepath.Join(stemDir, "vocals.wav")
	if err := os.WriteFile(vocals, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write vocals: %v", err)
	}

	var capturedArgs []string
	stubSuccess(t, &capturedArgs)

	cli := NewCLI()
	got, err := cli.IsolateVocals(context.Background(), "clip.mp3", outDir)
	if err != nil {
		t.Fatalf("IsolateVocals returned error: %v", err)
	}
	if got != vocals {
		t.Fatalf("expected %q, got %q", vocals, got)
	}

	joined := strings.Join(capturedArgs, " ")
	if !strings.Contains(joined, "--two-stems vocals") {
		t.Fatalf("expected two-stem arguments, got %q", joined)
	}
}

func TestIsolateVocalsReportsMissingOutput(t *testing.T) {
	var capturedArgs []string
	stubSuccess(t, &capturedArgs)

	cli := NewCLI()
	_, err := cli.IsolateVocals(context.Background(), "clip.mp3", t.TempDir())
	if err == nil {
		t.Fatal("expected error when no vocals stem exists")
	}
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found classification, got %v", err)
	}
}

func stubSuccess(t *testing.T, capturedArgs *[]string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		*capturedArgs = append([]string(nil), args...)
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1")
		return cmd
	}
	t.Cleanup(func() { commandContext = original })
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	os.Exit(0)
}
