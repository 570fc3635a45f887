// Package codec reads and writes the versioned text blob the library is
// persisted as.
//
// A blob is either "C1" followed by the base64 of the UTF-8 JSON document, or
// (for data written before the marker existed) the bare JSON document. The
// marker names the encoding only; no compression is performed.
package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// Marker prefixes every blob produced by Encode.
const Marker = "C1"

// Encode serialises v. If the JSON cannot be transformed the untagged JSON is
// returned; if v cannot be marshalled at all the result is empty.
func Encode(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	if !utf8.Valid(data) {
		return string(data)
	}
	return Marker + base64.StdEncoding.EncodeToString(data)
}

// Decode fills v from blob and reports whether blob held a usable document.
// Tagged blobs that fail to decode fall back to being read as plain JSON, so a
// legacy document that happens to start with the marker still loads.
func Decode(blob string, v any) bool {
	if strings.HasPrefix(blob, Marker) {
		if raw, err := base64.StdEncoding.DecodeString(blob[len(Marker):]); err == nil {
			if unmarshal(raw, v) {
				return true
			}
		}
	}
	return unmarshal([]byte(blob), v)
}

func unmarshal(data []byte, v any) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return false
	}
	return json.Unmarshal(trimmed, v) == nil
}
