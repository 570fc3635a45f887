package playback

import "errors"

var (
	// ErrNotReady indicates the device has not signalled readiness yet.
	ErrNotReady = errors.New("playback device not ready")
	// ErrEmptyPlaylist indicates a playlist without entries was requested.
	ErrEmptyPlaylist = errors.New("cannot play empty playlist")
	// ErrNoPlayableSegment indicates none of a playlist's entries resolve to a segment.
	ErrNoPlayableSegment = errors.New("playlist has no playable segments")
	// ErrNotInPlaylist indicates next/previous was requested outside playlist playback.
	ErrNotInPlaylist = errors.New("not playing a playlist")
)
