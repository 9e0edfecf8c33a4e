// Package ytdlp runs the yt-dlp subtitle downloader for a single video.
package ytdlp

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/nijaru/yt-transcript/videoid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultBinary   = "yt-dlp"
	DefaultLanguage = "en"
	SubtitleFormat  = "vtt"

	// maxDiagnostics caps how much stderr is kept per invocation.
	maxDiagnostics = 64 * 1024

	// waitDelay bounds how long Wait blocks on pipes held open by
	// grandchildren after the tool itself was killed.
	waitDelay = 2 * time.Second
)

type Config struct {
	Binary   string
	Language string
	Timeout  time.Duration
}

// Result describes a finished yt-dlp process.
type Result struct {
	ExitCode    int
	Diagnostics string
	Duration    time.Duration
}

// Success reports whether the tool exited with status 0.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

type Runner struct {
	config Config
	logger *logrus.Logger
}

func NewRunner(cfg Config) *Runner {
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	return &Runner{
		config: cfg,
		logger: logrus.StandardLogger(),
	}
}

// Language is the subtitle language requested from the tool.
func (r *Runner) Language() string {
	return r.config.Language
}

// Check verifies the configured binary can be found.
func (r *Runner) Check() error {
	if _, err := exec.LookPath(r.config.Binary); err != nil {
		return errors.Wrapf(err, "subtitle tool %q not found", r.config.Binary)
	}
	return nil
}

// Args builds the command line that downloads only the automatic
// captions of id into files starting with prefix.
func (r *Runner) Args(id, prefix string) []string {
	return []string{
		"--write-auto-sub",
		"--skip-download",
		"--sub-format", SubtitleFormat,
		"--sub-lang", r.config.Language,
		"-o", prefix,
		videoid.WatchURL(id),
	}
}

// ArtifactPath is where yt-dlp writes the caption track for prefix.
func ArtifactPath(prefix, lang string) string {
	return fmt.Sprintf("%s.%s.%s", prefix, lang, SubtitleFormat)
}

// Run executes yt-dlp and waits for it to exit. A non-zero exit is reported
// through Result; an error means the process could not be started or was
// stopped by the timeout or ctx.
func (r *Runner) Run(ctx context.Context, id, prefix string) (*Result, error) {
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	args := r.Args(id, prefix)
	logger := r.logger.WithFields(logrus.Fields{
		"videoID": id,
		"binary":  r.config.Binary,
		"args":    args,
	})
	logger.Debug("Executing subtitle tool")

	cmd := exec.CommandContext(ctx, r.config.Binary, args...)
	cmd.WaitDelay = waitDelay

	var stdout bytes.Buffer
	diagnostics := NewDiagnostics(maxDiagnostics)
	cmd.Stdout = &stdout
	cmd.Stderr = diagnostics

	start := time.Now()
	err := cmd.Run()
	result := &Result{
		Diagnostics: diagnostics.String(),
		Duration:    time.Since(start),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		logger.WithError(ctxErr).WithField("stderr", result.Diagnostics).Error("Subtitle tool stopped before exit")
		return result, &RunError{Binary: r.config.Binary, VideoID: id, Elapsed: result.Duration, Err: ctxErr}
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			logger.WithFields(logrus.Fields{
				"exitCode": result.ExitCode,
				"stderr":   result.Diagnostics,
			}).Warn("Subtitle tool exited with failure")
			return result, nil
		}
		logger.WithError(err).Error("Failed to start subtitle tool")
		return result, &RunError{Binary: r.config.Binary, VideoID: id, Elapsed: result.Duration, Err: err}
	}

	logger.WithFields(logrus.Fields{
		"duration": result.Duration,
		"stdout":   stdout.String(),
	}).Debug("Subtitle tool finished")
	return result, nil
}
