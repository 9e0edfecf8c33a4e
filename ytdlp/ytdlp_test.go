package ytdlp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"
)

// writeFakeTool installs a shell script standing in for yt-dlp. The script
// sees the -o value as $prefix.
func writeFakeTool(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tool requires a POSIX shell")
	}

	script := "#!/bin/sh\n" +
		"prefix=\"\"\n" +
		"while [ $# -gt 0 ]; do\n" +
		"  if [ \"$1\" = \"-o\" ]; then prefix=\"$2\"; shift; fi\n" +
		"  shift\n" +
		"done\n" +
		body + "\n"

	path := filepath.Join(t.TempDir(), "fake-yt-dlp")
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write fake tool: %v", err)
	}
	return path
}

func TestArgs(t *testing.T) {
	runner := NewRunner(Config{})

	expected := []string{
		"--write-auto-sub",
		"--skip-download",
		"--sub-format", "vtt",
		"--sub-lang", "en",
		"-o", "/tmp/work/transcript_abc",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	}
	got := runner.Args("dQw4w9WgXcQ", "/tmp/work/transcript_abc")
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestArtifactPath(t *testing.T) {
	expected := "/tmp/work/transcript_abc.en.vtt"
	if got := ArtifactPath("/tmp/work/transcript_abc", "en"); got != expected {
		t.Errorf("expected '%s', got '%s'", expected, got)
	}
}

func TestRun_Success(t *testing.T) {
	tool := writeFakeTool(t, `printf 'WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nhello\n' > "$prefix.en.vtt"`)
	runner := NewRunner(Config{Binary: tool, Timeout: 10 * time.Second})

	prefix := filepath.Join(t.TempDir(), "transcript_dQw4w9WgXcQ")
	result, err := runner.Run(context.Background(), "dQw4w9WgXcQ", prefix)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !result.Success() {
		t.Errorf("expected exit code 0, got %d", result.ExitCode)
	}

	content, err := os.ReadFile(ArtifactPath(prefix, "en"))
	if err != nil {
		t.Fatalf("expected artifact to exist: %v", err)
	}
	if !strings.Contains(string(content), "hello") {
		t.Errorf("unexpected artifact content: %s", content)
	}
}

func TestRun_NonZeroExit(t *testing.T) {
	tool := writeFakeTool(t, "echo 'ERROR: Video unavailable' >&2\nexit 3")
	runner := NewRunner(Config{Binary: tool})

	result, err := runner.Run(context.Background(), "dQw4w9WgXcQ", filepath.Join(t.TempDir(), "p"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.ExitCode != 3 {
		t.Errorf("expected exit code 3, got %d", result.ExitCode)
	}
	if !strings.Contains(result.Diagnostics, "Video unavailable") {
		t.Errorf("expected diagnostics to contain stderr, got %q", result.Diagnostics)
	}
}

func TestRun_MissingBinary(t *testing.T) {
	runner := NewRunner(Config{Binary: filepath.Join(t.TempDir(), "does-not-exist")})

	_, err := runner.Run(context.Background(), "dQw4w9WgXcQ", filepath.Join(t.TempDir(), "p"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var runErr *RunError
	if !errors.As(err, &runErr) {
		t.Fatalf("expected *RunError, got %T", err)
	}
	if runErr.Stopped() || runErr.TimedOut() {
		t.Errorf("expected a start failure, got stopped run: %v", runErr)
	}
	if runErr.VideoID != "dQw4w9WgXcQ" || !strings.HasSuffix(runErr.Binary, "does-not-exist") {
		t.Errorf("unexpected error fields: %+v", runErr)
	}
	if runner.Check() == nil {
		t.Error("expected Check to fail for a missing binary")
	}
}

func TestRun_Timeout(t *testing.T) {
	tool := writeFakeTool(t, "exec sleep 5")
	runner := NewRunner(Config{Binary: tool, Timeout: 100 * time.Millisecond})

	start := time.Now()
	_, err := runner.Run(context.Background(), "dQw4w9WgXcQ", filepath.Join(t.TempDir(), "p"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	var runErr *RunError
	if !errors.As(err, &runErr) || !runErr.TimedOut() || runErr.Binary != tool {
		t.Errorf("expected timed out *RunError for %s, got %v", tool, err)
	}
	if elapsed := time.Since(start); elapsed > 4*time.Second {
		t.Errorf("expected run to stop near the timeout, took %s", elapsed)
	}
}

func TestRun_Cancelled(t *testing.T) {
	tool := writeFakeTool(t, "exec sleep 5")
	runner := NewRunner(Config{Binary: tool})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := runner.Run(ctx, "dQw4w9WgXcQ", filepath.Join(t.TempDir(), "p"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context canceled, got %v", err)
	}
	var runErr *RunError
	if !errors.As(err, &runErr) || !runErr.Stopped() || runErr.TimedOut() {
		t.Errorf("expected cancelled *RunError, got %v", err)
	}
}

func TestDiagnostics(t *testing.T) {
	d := NewDiagnostics(8)
	d.Write([]byte("hello "))
	d.Write([]byte("world"))

	if !d.Truncated() {
		t.Error("expected collector to be truncated")
	}
	expected := "hello wo" + truncatedMarker
	if d.String() != expected {
		t.Errorf("expected %q, got %q", expected, d.String())
	}

	unlimited := NewDiagnostics(0)
	unlimited.Write([]byte(strings.Repeat("x", 100)))
	if unlimited.Truncated() || len(unlimited.String()) != 100 {
		t.Errorf("expected unlimited collector to keep everything, got %d bytes", len(unlimited.String()))
	}
}
