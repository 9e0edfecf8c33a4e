package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies why a transcript request failed.
type Kind string

const (
	KindMissingInput          Kind = "missing_input"
	KindFetchFailure          Kind = "fetch_failure"
	KindNoTranscriptAvailable Kind = "no_transcript"
	KindParseFailure          Kind = "parse_failure"
	KindInternal              Kind = "internal"
)

// AppError is a classified failure. Message and Hint are safe to show to
// clients; Err carries the detail that only goes to the logs.
type AppError struct {
	Kind    Kind
	Code    int
	Message string
	Hint    string
	Op      string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func MissingInput(op string, err error, message string) *AppError {
	return &AppError{
		Kind:    KindMissingInput,
		Code:    http.StatusBadRequest,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

// FetchFailure reports that the subtitle tool failed or could not be run.
func FetchFailure(op string, err error) *AppError {
	return &AppError{
		Kind:    KindFetchFailure,
		Code:    http.StatusInternalServerError,
		Message: "Failed to fetch transcript",
		Hint:    "Could not download transcript from YouTube",
		Op:      op,
		Err:     err,
	}
}

// NoTranscriptAvailable is the expected outcome for videos without captions.
func NoTranscriptAvailable(op string, videoID string) *AppError {
	return &AppError{
		Kind:    KindNoTranscriptAvailable,
		Code:    http.StatusNotFound,
		Message: "No transcript available for this video",
		Hint:    "The video may not have captions or subtitles enabled",
		Op:      op,
		Err:     fmt.Errorf("no caption track for video %s", videoID),
	}
}

func ParseFailure(op string, err error) *AppError {
	return &AppError{
		Kind:    KindParseFailure,
		Code:    http.StatusInternalServerError,
		Message: "Failed to parse transcript",
		Hint:    "The caption track could not be read as WebVTT text",
		Op:      op,
		Err:     err,
	}
}

func Internal(op string, err error, message string) *AppError {
	return &AppError{
		Kind:    KindInternal,
		Code:    http.StatusInternalServerError,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

// KindOf returns the kind of the first AppError in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// StatusCode returns the HTTP-like severity for err.
func StatusCode(err error) int {
	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
