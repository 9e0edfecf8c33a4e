package transcription

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nijaru/yt-transcript/db"
	apperrors "github.com/nijaru/yt-transcript/errors"
	"github.com/nijaru/yt-transcript/logger"
	"github.com/nijaru/yt-transcript/videoid"
	"github.com/nijaru/yt-transcript/vtt"
	"github.com/nijaru/yt-transcript/ytdlp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// unsafeNameChars matches anything that must not reach a file name.
var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// Transcript is the ordered caption text of one video.
type Transcript struct {
	VideoID  string        `json:"videoId"`
	Segments []vtt.Segment `json:"transcript"`
}

type Config struct {
	WorkDir  string
	Language string
}

type TranscriptionService struct {
	RunFunc      func(ctx context.Context, id, prefix string) (*ytdlp.Result, error)
	ReadFileFunc func(filename string) ([]byte, error)
	NonceFunc    func() string
	// RecordFunc logs each attempt; nil disables the fetch log.
	RecordFunc func(ctx context.Context, rec db.FetchRecord) error

	config Config
}

func NewTranscriptionService(runner *ytdlp.Runner, cfg Config) *TranscriptionService {
	if cfg.WorkDir == "" {
		cfg.WorkDir = filepath.Join(os.TempDir(), "yt-transcript")
	}
	if cfg.Language == "" {
		cfg.Language = runner.Language()
	}

	return &TranscriptionService{
		RunFunc:      runner.Run,
		ReadFileFunc: os.ReadFile,
		NonceFunc:    uuid.NewString,
		config:       cfg,
	}
}

// Fetch downloads and parses the automatic captions for input, which may be
// a YouTube URL or a bare video id.
func (s *TranscriptionService) Fetch(ctx context.Context, input string) (*Transcript, error) {
	const op = "TranscriptionService.Fetch"

	input = strings.TrimSpace(input)
	if input == "" {
		return nil, apperrors.MissingInput(op, nil, "Video URL is required")
	}

	id := videoid.Extract(input)
	log := logger.FromContext(ctx).WithField("videoID", id)
	log.Info("Fetching transcript")

	start := time.Now()
	transcript, err := s.fetch(ctx, id, log)
	s.record(ctx, id, transcript, err, time.Since(start), log)

	if err != nil {
		log.WithError(err).WithField("kind", apperrors.KindOf(err)).Error("Transcript fetch failed")
		return nil, err
	}

	log.WithField("segments", len(transcript.Segments)).Info("Transcript fetched successfully")
	return transcript, nil
}

func (s *TranscriptionService) fetch(ctx context.Context, id string, log *logrus.Entry) (*Transcript, error) {
	const op = "TranscriptionService.fetch"

	if err := os.MkdirAll(s.config.WorkDir, 0755); err != nil {
		return nil, apperrors.Internal(op, err, "Failed to prepare working directory")
	}

	prefix := s.artifactPrefix(id)
	defer s.cleanup(prefix, log)

	result, err := s.RunFunc(ctx, id, prefix)
	if err != nil {
		return nil, apperrors.FetchFailure(op, err)
	}
	if !result.Success() {
		log.WithFields(logrus.Fields{
			"exitCode": result.ExitCode,
			"stderr":   result.Diagnostics,
		}).Error("Subtitle tool failed")
		return nil, apperrors.FetchFailure(op, errors.Errorf(
			"subtitle tool exited with code %d: %s",
			result.ExitCode,
			strings.TrimSpace(result.Diagnostics),
		))
	}

	artifact := ytdlp.ArtifactPath(prefix, s.config.Language)
	if _, err := os.Stat(artifact); err != nil {
		if os.IsNotExist(err) {
			log.WithField("artifact", artifact).Info("Subtitle tool produced no caption track")
			return nil, apperrors.NoTranscriptAvailable(op, id)
		}
		return nil, apperrors.ParseFailure(op, errors.Wrap(err, "stat caption track"))
	}

	content, err := s.ReadFileFunc(artifact)
	if err != nil {
		return nil, apperrors.ParseFailure(op, errors.Wrap(err, "read caption track"))
	}

	segments, err := vtt.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, apperrors.ParseFailure(op, err)
	}

	return &Transcript{VideoID: id, Segments: segments}, nil
}

// artifactPrefix returns a request-scoped output prefix so concurrent
// requests for the same video never share files.
func (s *TranscriptionService) artifactPrefix(id string) string {
	name := "transcript_" + unsafeNameChars.ReplaceAllString(id, "_") + "_" + s.NonceFunc()
	return filepath.Join(s.config.WorkDir, name)
}

// cleanup removes every file the tool wrote under prefix.
func (s *TranscriptionService) cleanup(prefix string, log *logrus.Entry) {
	dir, base := filepath.Split(prefix)
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.WithError(err).WithField("dir", dir).Error("Failed to list working directory")
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), base) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.WithError(err).WithField("filename", path).Error("Failed to remove file")
		}
	}
}

func (s *TranscriptionService) record(
	ctx context.Context,
	id string,
	transcript *Transcript,
	fetchErr error,
	elapsed time.Duration,
	log *logrus.Entry,
) {
	if s.RecordFunc == nil {
		return
	}

	rec := db.FetchRecord{
		VideoID:    id,
		Status:     db.StatusSucceeded,
		DurationMs: elapsed.Milliseconds(),
	}
	if fetchErr != nil {
		rec.Status = db.StatusFailed
		rec.ErrorKind = string(apperrors.KindOf(fetchErr))
	} else {
		rec.Segments = len(transcript.Segments)
	}

	// The fetch log is written even when the request context is done.
	if err := s.RecordFunc(context.WithoutCancel(ctx), rec); err != nil {
		log.WithError(err).Warn("Failed to record fetch")
	}
}
