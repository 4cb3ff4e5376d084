package youtube

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidVideoURL is returned when no video identifier can be extracted.
var ErrInvalidVideoURL = errors.New("invalid youtube video url")

// Ordered patterns for the common YouTube URL shapes. First match wins.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/watch\?.*?v=([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:https?://)?youtu\.be/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/embed/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/v/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/e/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/shorts/([a-zA-Z0-9_-]{11})`),
}

var videoIDShape = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// ExtractVideoID extracts the 11-character YouTube video ID from the given
// URL string. It tries the known URL patterns in order, then falls back to
// generic query-parameter extraction. Pure function, no I/O.
func ExtractVideoID(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", ErrInvalidVideoURL
	}

	for _, pattern := range videoIDPatterns {
		if match := pattern.FindStringSubmatch(rawURL); match != nil {
			return match[1], nil
		}
	}

	// Fallback: a watch URL whose 'v' parameter did not match the strict
	// patterns (extra query params, unusual ordering).
	if parsed, err := url.Parse(rawURL); err == nil {
		host := strings.TrimPrefix(parsed.Hostname(), "www.")
		if (host == "youtube.com" || host == "m.youtube.com") && parsed.Path == "/watch" {
			if v := parsed.Query().Get("v"); videoIDShape.MatchString(v) {
				return v, nil
			}
		}
	}

	return "", ErrInvalidVideoURL
}
