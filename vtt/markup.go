package vtt

import (
	"regexp"
	"strings"
)

var (
	// tagPattern matches cue markup: timestamp tags, <c>/<c.class> spans,
	// <i>/<b>/<u>, voice tags like <v Speaker> and their closers.
	tagPattern = regexp.MustCompile(`<[^>]*>`)

	inlineTimestampPattern = regexp.MustCompile(timestampExpr)
)

// StripMarkup removes markup tags and stray timestamps from one cue text
// line and trims the result.
func StripMarkup(line string) string {
	line = tagPattern.ReplaceAllString(strings.TrimSpace(line), "")
	line = inlineTimestampPattern.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}
