package validation

import (
	"net/url"
	"strings"
)

const maxInputLength = 2048

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateVideoInput accepts a YouTube URL or anything that is not a URL at
// all, which is later treated as a bare video id.
func ValidateVideoInput(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return &ValidationError{Message: "Video URL is required"}
	}
	if len(input) > maxInputLength {
		return &ValidationError{Message: "Video URL is too long"}
	}
	if !strings.Contains(input, "://") {
		return nil
	}

	parsedURL, err := url.ParseRequestURI(input)
	if err != nil {
		return &ValidationError{Message: "Invalid URL format"}
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Message: "URL must start with http or https"}
	}

	host := strings.ToLower(parsedURL.Hostname())
	if host == "" {
		return &ValidationError{Message: "URL must have a host"}
	}
	if !isYouTubeHost(host) {
		return &ValidationError{Message: "Only YouTube URLs are supported"}
	}

	return nil
}

func isYouTubeHost(host string) bool {
	return host == "youtu.be" ||
		host == "youtube.com" ||
		strings.HasSuffix(host, ".youtube.com")
}
