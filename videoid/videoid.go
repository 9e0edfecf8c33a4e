package videoid

import (
	"regexp"
)

// Length is the fixed length of a YouTube video identifier.
const Length = 11

// idPattern covers the watch-query, short-link and embed URL shapes.
var idPattern = regexp.MustCompile(
	`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`,
)

var (
	bareIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	urlShape      = regexp.MustCompile(
		`^(https?://)?(www\.|m\.)?(youtube\.com/(watch\?v=|embed/|shorts/)|youtu\.be/)([A-Za-z0-9_-]{11})`,
	)
)

// Extract returns the video identifier found in input. When no known URL
// shape matches, input is returned unchanged and treated as a bare id.
func Extract(input string) string {
	m := idPattern.FindStringSubmatch(input)
	if len(m) < 2 || len(m[1]) != Length {
		return input
	}
	return m[1]
}

// WatchURL builds the canonical watch URL for id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// LooksValid reports whether input is a recognizable YouTube URL or a bare
// identifier. Extract never rejects input; this is only a hint for clients.
func LooksValid(input string) bool {
	return urlShape.MatchString(input) || bareIDPattern.MatchString(input)
}
