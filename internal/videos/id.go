package videos

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	directPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`)
	queryPattern  = regexp.MustCompile(`youtube\.com/watch\?.*v=([^&\n?#]+)`)
)

// ExtractID returns the video id embedded in a watch, short or embed URL.
func ExtractID(url string) (string, error) {
	url = strings.TrimSpace(url)
	for _, pattern := range []*regexp.Regexp{directPattern, queryPattern} {
		if m := pattern.FindStringSubmatch(url); m != nil && m[1] != "" {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnrecognizedURL, url)
}

// WatchURL builds the canonical watch URL for id, starting at start seconds.
func WatchURL(id string, start int) string {
	if start > 0 {
		return fmt.Sprintf("https://www.youtube.com/watch?v=%s&t=%ds", id, start)
	}
	return "https://www.youtube.com/watch?v=" + id
}
