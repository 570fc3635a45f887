package videos

import (
	"errors"
	"testing"
)

func TestExtractID(t *testing.T) {
	cases := map[string]string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ":               "dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s":         "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ":                              "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ?si=share":                     "dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ":                 "dQw4w9WgXcQ",
		"https://www.youtube.com/watch?feature=share&v=abc123XYZ_-": "abc123XYZ_-",
		"  https://youtu.be/xyz#frag  ":                             "xyz",
	}

	for url, want := range cases {
		got, err := ExtractID(url)
		if err != nil {
			t.Fatalf("ExtractID(%q): unexpected error: %v", url, err)
		}
		if got != want {
			t.Fatalf("ExtractID(%q): got %q want %q", url, got, want)
		}
	}
}

func TestExtractIDRejectsOtherURLs(t *testing.T) {
	for _, url := range []string{"", "https://example.com/video", "https://vimeo.com/12345", "https://www.youtube.com/watch?list=abc"} {
		if _, err := ExtractID(url); !errors.Is(err, ErrUnrecognizedURL) {
			t.Fatalf("ExtractID(%q): expected ErrUnrecognizedURL got %v", url, err)
		}
	}
}

func TestWatchURL(t *testing.T) {
	if got := WatchURL("abc", 0); got != "https://www.youtube.com/watch?v=abc" {
		t.Fatalf("unexpected url %q", got)
	}
	if got := WatchURL("abc", 90); got != "https://www.youtube.com/watch?v=abc&t=90s" {
		t.Fatalf("unexpected url %q", got)
	}
}
