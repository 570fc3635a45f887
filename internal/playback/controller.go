// Package playback drives a video device through single-segment and playlist
// playback, stopping or advancing when the playhead reaches a segment's end.
package playback

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/AGTDofficial/my-yt-playlist/internal/models"
)

// Mode is the controller's playback state.
type Mode int

const (
	ModeIdle Mode = iota
	ModeSingle
	ModePlaylist
	ModeFinished
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeSingle:
		return "playing_single"
	case ModePlaylist:
		return "playing_playlist"
	case ModeFinished:
		return "finished"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name written by MarshalText.
func (m *Mode) UnmarshalText(text []byte) error {
	for candidate := ModeIdle; candidate <= ModeFinished; candidate++ {
		if candidate.String() == string(text) {
			*m = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown playback mode %q", text)
}

// SegmentResolver looks segments up by id.
type SegmentResolver interface {
	Segment(id string) (models.Segment, error)
}

// DefaultTickInterval approximates one display refresh.
const DefaultTickInterval = 16 * time.Millisecond

// Options configures a Controller.
type Options struct {
	// TickInterval is how often the boundary monitor samples the device.
	TickInterval time.Duration
	Logger       *slog.Logger
}

// Status is a snapshot of the controller.
type Status struct {
	Mode        Mode             `json:"mode"`
	Ready       bool             `json:"ready"`
	Segment     *models.Segment  `json:"segment,omitempty"`
	Playlist    *models.Playlist `json:"playlist,omitempty"`
	Index       int              `json:"index"`
	Label       string           `json:"label,omitempty"`
	Monitoring  bool             `json:"monitoring"`
	DeviceState DeviceState      `json:"deviceState"`
}

// Controller owns the playback state machine. Commands are rejected with
// ErrNotReady until the device has signalled readiness.
type Controller struct {
	mu       sync.Mutex
	device   Device
	segments SegmentResolver
	interval time.Duration
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	ready    bool
	mode     Mode
	current  *models.Segment
	playlist *models.Playlist
	index    int

	// generation increments whenever the armed segment changes; monitors
	// started for an older generation exit on their next tick.
	generation uint64
	monitoring bool
}

// NewController constructs an idle controller. Close stops any running monitor.
func NewController(device Device, segments SegmentResolver, opts Options) *Controller {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		device:   device,
		segments: segments,
		interval: opts.TickInterval,
		logger:   opts.Logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Close stops the boundary monitor and waits for it to exit.
func (c *Controller) Close() {
	c.cancel()
	c.wg.Wait()
}

// DeviceReady records that the device accepted its first command.
func (c *Controller) DeviceReady() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready {
		c.logger.Info("playback device ready")
	}
	c.ready = true
}

// DeviceStateChanged re-arms the boundary monitor when playback resumes after
// a pause or a buffering stall ended it.
func (c *Controller) DeviceStateChanged(state DeviceState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if state != StatePlaying || c.monitoring || c.current == nil {
		return
	}
	if c.mode != ModeSingle && c.mode != ModePlaylist {
		return
	}
	c.startMonitorLocked()
}

// Status returns a snapshot of the current state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Status{
		Mode:        c.mode,
		Ready:       c.ready,
		Index:       c.index,
		Monitoring:  c.monitoring,
		DeviceState: c.device.State(),
	}
	if c.current != nil {
		seg := *c.current
		st.Segment = &seg
		st.Label = seg.Name
	}
	if c.playlist != nil {
		pl := *c.playlist
		pl.SegmentIDs = append([]string(nil), c.playlist.SegmentIDs...)
		st.Playlist = &pl
		if c.mode == ModePlaylist && c.current != nil {
			st.Label = fmt.Sprintf("%s - %s (%d/%d)", pl.Name, c.current.Name, c.index+1, len(pl.SegmentIDs))
		}
	}
	return st
}

// PlaySegment plays seg. During playlist playback the segment stays
// attributed to the playlist and the index does not move; otherwise the
// controller enters single playback.
func (c *Controller) PlaySegment(ctx context.Context, seg models.Segment) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.ready {
		return ErrNotReady
	}
	if err := c.loadLocked(ctx, seg); err != nil {
		return err
	}
	if c.mode != ModePlaylist {
		c.mode = ModeSingle
		c.playlist = nil
		c.index = 0
	}
	return nil
}

// PlayPlaylist starts pl from its first entry that resolves to a segment.
func (c *Controller) PlayPlaylist(ctx context.Context, pl models.Playlist) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.ready {
		return ErrNotReady
	}
	if len(pl.SegmentIDs) == 0 {
		return ErrEmptyPlaylist
	}

	idx, seg, ok := c.resolveForward(pl, 0)
	if !ok {
		return ErrNoPlayableSegment
	}
	if err := c.loadLocked(ctx, seg); err != nil {
		return err
	}

	pl.SegmentIDs = append([]string(nil), pl.SegmentIDs...)
	c.mode = ModePlaylist
	c.playlist = &pl
	c.index = idx
	c.logger.Info("playlist started", "playlist", pl.ID, "index", idx)
	return nil
}

// Next moves to the following playable entry. Past the last one the
// controller finishes and pauses the device.
func (c *Controller) Next(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nextLocked(ctx)
}

func (c *Controller) nextLocked(ctx context.Context) error {
	if !c.ready {
		return ErrNotReady
	}
	if c.mode != ModePlaylist || c.playlist == nil {
		return ErrNotInPlaylist
	}

	idx, seg, ok := c.resolveForward(*c.playlist, c.index+1)
	if !ok {
		c.finishLocked(ctx)
		return nil
	}
	if err := c.loadLocked(ctx, seg); err != nil {
		return err
	}
	c.index = idx
	return nil
}

// Previous moves to the preceding playable entry. At the first playable entry
// it restarts the current one.
func (c *Controller) Previous(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.ready {
		return ErrNotReady
	}
	if c.mode != ModePlaylist || c.playlist == nil {
		return ErrNotInPlaylist
	}

	idx, seg, ok := c.resolveBackward(*c.playlist, c.index-1)
	if !ok {
		idx, seg, ok = c.resolveForward(*c.playlist, c.index)
		if !ok {
			return ErrNoPlayableSegment
		}
	}
	if err := c.loadLocked(ctx, seg); err != nil {
		return err
	}
	c.index = idx
	return nil
}

// Stop leaves any playback mode, pauses the device and returns to idle.
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.ready {
		return ErrNotReady
	}
	c.stopMonitorLocked()
	c.mode = ModeIdle
	c.current = nil
	c.playlist = nil
	c.index = 0
	if err := c.device.Pause(ctx); err != nil {
		return fmt.Errorf("pause device: %w", err)
	}
	return nil
}

func (c *Controller) finishLocked(ctx context.Context) {
	c.stopMonitorLocked()
	c.mode = ModeFinished
	if err := c.device.Pause(ctx); err != nil {
		c.logger.Warn("pause after playlist finished failed", "error", err)
	}
	if c.playlist != nil {
		c.logger.Info("playlist finished", "playlist", c.playlist.ID)
	}
}

func (c *Controller) loadLocked(ctx context.Context, seg models.Segment) error {
	if err := c.device.LoadClip(ctx, seg.VideoID, seg.Start, seg.End); err != nil {
		return fmt.Errorf("load clip %s: %w", seg.ID, err)
	}
	c.current = &seg
	c.startMonitorLocked()
	return nil
}

// resolveForward finds the first entry at or after from that names a segment.
func (c *Controller) resolveForward(pl models.Playlist, from int) (int, models.Segment, bool) {
	for i := max(from, 0); i < len(pl.SegmentIDs); i++ {
		if seg, err := c.segments.Segment(pl.SegmentIDs[i]); err == nil {
			return i, seg, true
		}
	}
	return 0, models.Segment{}, false
}

// resolveBackward finds the last entry at or before from that names a segment.
func (c *Controller) resolveBackward(pl models.Playlist, from int) (int, models.Segment, bool) {
	for i := min(from, len(pl.SegmentIDs)-1); i >= 0; i-- {
		if seg, err := c.segments.Segment(pl.SegmentIDs[i]); err == nil {
			return i, seg, true
		}
	}
	return 0, models.Segment{}, false
}
