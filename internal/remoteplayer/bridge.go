// Package remoteplayer exposes the browser-side video widget as a
// playback.Device over a WebSocket connection.
//
// The server sends {"type":"load","seq","videoId","start","end"} and
// {"type":"pause"}. The widget reports {"type":"ready"},
// {"type":"state","state","time","seq"} and {"type":"time","time","seq"}.
// A report carrying the seq of an earlier load describes a clip that has
// since been replaced and is ignored. Reports without seq are accepted.
package remoteplayer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AGTDofficial/my-yt-playlist/internal/playback"
)

// ErrNoClient indicates no widget is connected to receive commands.
var ErrNoClient = errors.New("no player client connected")

const maxReportSize = 4096

// Options configures a Bridge.
type Options struct {
	Logger       *slog.Logger
	WriteTimeout time.Duration
	// CheckOrigin overrides the upgrader's same-origin check.
	CheckOrigin func(r *http.Request) bool
}

// Bridge implements playback.Device for the most recently connected widget.
type Bridge struct {
	upgrader     websocket.Upgrader
	logger       *slog.Logger
	writeTimeout time.Duration

	mu       sync.Mutex
	conn     *websocket.Conn
	state    playback.DeviceState
	position float64
	loadSeq  uint64
	onReady  func()
	onState  func(playback.DeviceState)

	writeMu   sync.Mutex
	readyOnce sync.Once
}

type loadCommand struct {
	Type    string `json:"type"`
	Seq     uint64 `json:"seq"`
	VideoID string `json:"videoId"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

type pauseCommand struct {
	Type string `json:"type"`
}

type report struct {
	Type  string   `json:"type"`
	State string   `json:"state,omitempty"`
	Time  *float64 `json:"time,omitempty"`
	Seq   *uint64  `json:"seq,omitempty"`
}

// stale reports whether msg belongs to a clip older than the current load.
// Callers hold b.mu.
func (b *Bridge) stale(msg report) bool {
	return msg.Seq != nil && *msg.Seq < b.loadSeq
}

// New constructs a Bridge with no connected client.
func New(opts Options) *Bridge {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	return &Bridge{
		upgrader:     websocket.Upgrader{CheckOrigin: opts.CheckOrigin},
		logger:       opts.Logger,
		writeTimeout: opts.WriteTimeout,
		state:        playback.StateUnstarted,
	}
}

// OnReady registers fn to run the first time any client reports ready.
func (b *Bridge) OnReady(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onReady = fn
}

// OnStateChange registers fn to run on every reported state.
func (b *Bridge) OnStateChange(fn func(playback.DeviceState)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onState = fn
}

// Connected reports whether a widget is attached.
func (b *Bridge) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn != nil
}

// ServeHTTP upgrades the request and serves the widget until it disconnects.
// A new connection replaces the previous one.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Warn("player upgrade failed", "error", err)
		return
	}

	b.mu.Lock()
	previous := b.conn
	b.conn = conn
	b.state = playback.StateUnstarted
	b.position = 0
	b.mu.Unlock()

	if previous != nil {
		_ = previous.Close()
	}
	b.logger.Info("player client connected", "remote_addr", r.RemoteAddr)

	b.readPump(conn)
}

func (b *Bridge) readPump(conn *websocket.Conn) {
	defer func() {
		b.mu.Lock()
		if b.conn == conn {
			b.conn = nil
			b.state = playback.StateUnstarted
		}
		b.mu.Unlock()
		_ = conn.Close()
		b.logger.Info("player client disconnected")
	}()

	conn.SetReadLimit(maxReportSize)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				b.logger.Warn("player read failed", "error", err)
			}
			return
		}

		var msg report
		if err := json.Unmarshal(data, &msg); err != nil {
			b.logger.Warn("malformed player report", "error", err)
			continue
		}
		b.handle(msg)
	}
}

func (b *Bridge) handle(msg report) {
	switch msg.Type {
	case "ready":
		b.mu.Lock()
		fn := b.onReady
		b.mu.Unlock()
		b.readyOnce.Do(func() {
			if fn != nil {
				fn()
			}
		})
	case "state":
		state, err := playback.ParseDeviceState(msg.State)
		if err != nil {
			b.logger.Warn("unknown player state", "state", msg.State)
			return
		}
		b.mu.Lock()
		if b.stale(msg) {
			b.mu.Unlock()
			return
		}
		b.state = state
		if msg.Time != nil {
			b.position = *msg.Time
		}
		fn := b.onState
		b.mu.Unlock()
		if fn != nil {
			fn(state)
		}
	case "time":
		if msg.Time == nil {
			return
		}
		b.mu.Lock()
		if !b.stale(msg) {
			b.position = *msg.Time
		}
		b.mu.Unlock()
	default:
		b.logger.Warn("unknown player report", "type", msg.Type)
	}
}

// LoadClip tells the widget to play videoID between start and end seconds.
func (b *Bridge) LoadClip(ctx context.Context, videoID string, start, end int) error {
	b.mu.Lock()
	if b.conn == nil {
		b.mu.Unlock()
		return ErrNoClient
	}
	b.loadSeq++
	cmd := loadCommand{Type: "load", Seq: b.loadSeq, VideoID: videoID, Start: start, End: end}
	b.position = float64(start)
	b.mu.Unlock()

	return b.send(ctx, cmd)
}

// Pause tells the widget to pause.
func (b *Bridge) Pause(ctx context.Context) error {
	return b.send(ctx, pauseCommand{Type: "pause"})
}

// CurrentTime returns the last reported playhead position.
func (b *Bridge) CurrentTime() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.position
}

// State returns the last reported player state.
func (b *Bridge) State() playback.DeviceState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Close drops the connected client, if any.
func (b *Bridge) Close() error {
	b.mu.Lock()
	conn := b.conn
	b.conn = nil
	b.mu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close()
}

func (b *Bridge) send(ctx context.Context, v any) error {
	b.mu.Lock()
	conn := b.conn
	b.mu.Unlock()
	if conn == nil {
		return ErrNoClient
	}

	deadline := time.Now().Add(b.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}

var _ playback.Device = (*Bridge)(nil)
