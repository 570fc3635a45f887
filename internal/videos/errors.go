package videos

import "errors"

var (
	// ErrUnrecognizedURL indicates the URL does not point at a hosted video.
	ErrUnrecognizedURL = errors.New("unrecognized video url")
)
