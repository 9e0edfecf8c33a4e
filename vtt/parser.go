// Package vtt turns WebVTT caption tracks into time-aligned transcript
// segments.
package vtt

import (
	"bufio"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// ErrMalformedTrack is returned when a track cannot be read as text.
var ErrMalformedTrack = errors.New("malformed caption track")

// maxLineSize bounds a single track line.
const maxLineSize = 1 << 20

const arrow = "-->"

var timingLinePattern = regexp.MustCompile(`(` + timestampExpr + `)\s+-->\s+(` + timestampExpr + `)`)

// Segment is one caption cue reduced to plain text.
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// End returns the cue end time in seconds.
func (s Segment) End() float64 {
	return s.Start + s.Duration
}

// ParseString parses a whole track held in memory.
func ParseString(track string) ([]Segment, error) {
	return Parse(strings.NewReader(track))
}

// Parse reads a caption track and returns its cues in order of appearance.
// Cues whose text is empty once markup is stripped are dropped; repeated
// cues are kept.
func Parse(r io.Reader) ([]Segment, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	segments := []Segment{}
	for i := 0; i < len(lines); i++ {
		start, end, ok := parseTimingLine(lines[i])
		if !ok {
			continue
		}

		var fragments []string
		for i+1 < len(lines) && isCueText(lines[i+1]) {
			i++
			if text := StripMarkup(lines[i]); text != "" {
				fragments = append(fragments, text)
			}
		}

		text := strings.TrimSpace(strings.Join(fragments, " "))
		if text == "" {
			continue
		}

		duration := end - start
		if duration < 0 {
			duration = 0
		}
		segments = append(segments, Segment{Text: text, Start: start, Duration: duration})
	}

	return segments, nil
}

func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimRight(scanner.Text(), "\r")
		if !utf8.ValidString(line) {
			return nil, errors.Wrapf(ErrMalformedTrack, "line %d is not valid UTF-8", n)
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(ErrMalformedTrack, "read track: %v", err)
	}
	return lines, nil
}

// parseTimingLine reports the cue start and end when line is a timing line.
func parseTimingLine(line string) (float64, float64, bool) {
	m := timingLinePattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return 0, 0, false
	}
	start, err := ParseTimestamp(m[1])
	if err != nil {
		return 0, 0, false
	}
	end, err := ParseTimestamp(m[2])
	if err != nil {
		return 0, 0, false
	}
	return start, end, true
}

// isCueText reports whether line continues the current cue's text.
func isCueText(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed != "" && !strings.Contains(trimmed, arrow)
}
