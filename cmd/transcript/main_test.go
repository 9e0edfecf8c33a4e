package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

const sampleTrack = "WEBVTT\nKind: captions\nLanguage: en\n\n" +
	"00:00:01.000 --> 00:00:03.500\nHello <c>world</c>\n\n" +
	"00:01:05.000 --> 00:01:07.000\nSecond line\n"

func runCLI(t *testing.T, args []string, stdin string) (string, string, error) {
	t.Helper()
	return runCLIContext(t, context.Background(), args, stdin)
}

func runCLIContext(t *testing.T, ctx context.Context, args []string, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func writeTrack(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "track.en.vtt")
	if err := os.WriteFile(path, []byte(sampleTrack), 0o644); err != nil {
		t.Fatalf("write track: %v", err)
	}
	return path
}

func TestParseCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"parse", writeTrack(t)}, "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out != "0:01 Hello world\n1:05 Second line\n" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestParseCommandStdin(t *testing.T) {
	out, _, err := runCLI(t, []string{"parse", "-"}, sampleTrack)
	if err != nil {
		t.Fatalf("parse -: %v", err)
	}
	requireContains(t, out, "0:01 Hello world")
}

func TestParseCommandJSON(t *testing.T) {
	out, _, err := runCLI(t, []string{"parse", "--json", writeTrack(t)}, "")
	if err != nil {
		t.Fatalf("parse --json: %v", err)
	}
	requireContains(t, out, `"text": "Hello world"`)
	requireContains(t, out, `"duration": 2.5`)
}

func TestParseCommandTable(t *testing.T) {
	out, _, err := runCLI(t, []string{"parse", "--table", writeTrack(t)}, "")
	if err != nil {
		t.Fatalf("parse --table: %v", err)
	}
	requireContains(t, out, "Start")
	requireContains(t, out, "Duration")
	requireContains(t, out, "Second line")
	requireContains(t, out, "2.500")
}

func TestParseCommandMissingFile(t *testing.T) {
	_, _, err := runCLI(t, []string{"parse", filepath.Join(t.TempDir(), "missing.vtt")}, "")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseCommandRejectsBothFormats(t *testing.T) {
	_, _, err := runCLI(t, []string{"parse", "--json", "--table", writeTrack(t)}, "")
	if err == nil {
		t.Fatal("expected error when --json and --table are combined")
	}
}

// writeFakeTool installs a shell script standing in for yt-dlp; body sees
// the -o value as $prefix.
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
	tool := filepath.Join(t.TempDir(), "fake-yt-dlp")
	if err := os.WriteFile(tool, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake tool: %v", err)
	}
	return tool
}

func TestFetchCommand(t *testing.T) {
	tool := writeFakeTool(t, `printf 'WEBVTT\n\n00:00:02.000 --> 00:00:04.000\nfrom the tool\n' > "$prefix.en.vtt"`)
	workDir := t.TempDir()

	out, stderr, err := runCLI(t, []string{
		"fetch",
		"--yt-dlp", tool,
		"--work-dir", workDir,
		"not a video",
	}, "")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	requireContains(t, out, "0:02 from the tool")
	requireContains(t, stderr, "does not look like a YouTube URL")

	entries, err := os.ReadDir(workDir)
	if err != nil {
		t.Fatalf("read work dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected work dir to be cleaned up, found %d entries", len(entries))
	}
}

func TestFetchCommandMissingTool(t *testing.T) {
	_, _, err := runCLI(t, []string{
		"fetch",
		"--yt-dlp", filepath.Join(t.TempDir(), "no-such-tool"),
		"dQw4w9WgXcQ",
	}, "")
	if err == nil {
		t.Fatal("expected error when yt-dlp is missing")
	}
}

func TestFetchCommandInterruptCleansUp(t *testing.T) {
	tool := writeFakeTool(t, `printf 'WEBVTT\n' > "$prefix.en.vtt.part"
exec sleep 5`)
	workDir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		deadline := time.Now().Add(3 * time.Second)
		for time.Now().Before(deadline) {
			if entries, _ := os.ReadDir(workDir); len(entries) > 0 {
				break
			}
			time.Sleep(10 * time.Millisecond)
		}
		cancel()
	}()

	start := time.Now()
	_, _, err := runCLIContext(t, ctx, []string{
		"fetch",
		"--yt-dlp", tool,
		"--work-dir", workDir,
		"dQw4w9WgXcQ",
	}, "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 4*time.Second {
		t.Errorf("expected fetch to stop soon after cancel, took %s", elapsed)
	}

	entries, err := os.ReadDir(workDir)
	if err != nil {
		t.Fatalf("read work dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected partial caption files to be removed, found %d entries", len(entries))
	}
}
