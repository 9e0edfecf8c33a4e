package ytdlp

import (
	"bytes"
	"sync"
)

const truncatedMarker = "\n[diagnostics truncated]"

// Diagnostics collects a process's stderr as it is written. Each Run owns
// its own collector.
type Diagnostics struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func NewDiagnostics(limit int) *Diagnostics {
	return &Diagnostics{limit: limit}
}

// Write keeps up to limit bytes and silently drops the rest so the child
// process never blocks on a full pipe.
func (d *Diagnostics) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	room := d.limit - d.buf.Len()
	if d.limit <= 0 {
		room = len(p)
	}
	if room < len(p) {
		d.truncated = true
		if room > 0 {
			d.buf.Write(p[:room])
		}
		return len(p), nil
	}
	d.buf.Write(p)
	return len(p), nil
}

func (d *Diagnostics) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.truncated {
		return d.buf.String() + truncatedMarker
	}
	return d.buf.String()
}

func (d *Diagnostics) Truncated() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.truncated
}
