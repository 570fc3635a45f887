// Package idgen issues identifiers for segments and playlists.
package idgen

import (
	"crypto/rand"
	"strconv"
	"time"

	"github.com/jxskiss/base62"
)

const (
	// SegmentPrefix starts every segment id.
	SegmentPrefix = "seg"
	// PlaylistPrefix starts every playlist id.
	PlaylistPrefix = "pl"
)

// Generator produces ids of the form <prefix>_<unix millis>_<random base62>.
type Generator struct {
	Now func() time.Time
}

// New returns a Generator reading the wall clock.
func New() *Generator {
	return &Generator{Now: time.Now}
}

// NewID returns a fresh id carrying prefix.
func (g *Generator) NewID(prefix string) string {
	now := time.Now
	if g != nil && g.Now != nil {
		now = g.Now
	}
	return prefix + "_" + strconv.FormatInt(now().UnixMilli(), 10) + "_" + randomSuffix()
}

// Segment returns a fresh segment id.
func (g *Generator) Segment() string { return g.NewID(SegmentPrefix) }

// Playlist returns a fresh playlist id.
func (g *Generator) Playlist() string { return g.NewID(PlaylistPrefix) }

func randomSuffix() string {
	var r [8]byte
	if _, err := rand.Read(r[:]); err != nil {
		panic(err)
	}
	return base62.StdEncoding.EncodeToString(r[:])
}
