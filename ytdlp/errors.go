package ytdlp

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// RunError reports a yt-dlp invocation that never produced an exit status:
// the binary could not be started, or the run was stopped by its timeout or
// the caller's context.
type RunError struct {
	Binary  string
	VideoID string
	Elapsed time.Duration
	Err     error
}

func (e *RunError) Error() string {
	if e.Stopped() {
		return fmt.Sprintf("%s stopped after %s for video %s: %v", e.Binary, e.Elapsed.Round(time.Millisecond), e.VideoID, e.Err)
	}
	return fmt.Sprintf("%s could not be started for video %s: %v", e.Binary, e.VideoID, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Stopped reports whether the run was cut short by a deadline or a
// cancellation rather than failing to start.
func (e *RunError) Stopped() bool {
	return errors.Is(e.Err, context.DeadlineExceeded) || errors.Is(e.Err, context.Canceled)
}

// TimedOut reports whether the configured timeout or a caller deadline
// ended the run.
func (e *RunError) TimedOut() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}
