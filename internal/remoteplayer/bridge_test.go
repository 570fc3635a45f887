package remoteplayer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AGTDofficial/my-yt-playlist/internal/playback"
)

func newTestBridge(t *testing.T) (*Bridge, *httptest.Server) {
	t.Helper()
	bridge := New(Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	server := httptest.NewServer(bridge)
	t.Cleanup(func() {
		_ = bridge.Close()
		server.Close()
	})
	return bridge, server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial player bridge: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestBridgeCommandsWithoutClient(t *testing.T) {
	bridge := New(Options{})

	if err := bridge.LoadClip(context.Background(), "abc", 0, 10); !errors.Is(err, ErrNoClient) {
		t.Fatalf("expected ErrNoClient from LoadClip, got %v", err)
	}
	if err := bridge.Pause(context.Background()); !errors.Is(err, ErrNoClient) {
		t.Fatalf("expected ErrNoClient from Pause, got %v", err)
	}
	if bridge.State() != playback.StateUnstarted {
		t.Fatalf("expected unstarted state, got %v", bridge.State())
	}
}

func TestBridgeForwardsReadyOnce(t *testing.T) {
	bridge, server := newTestBridge(t)

	var mu sync.Mutex
	calls := 0
	bridge.OnReady(func() {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	conn := dial(t, server)
	for i := 0; i < 2; i++ {
		if err := conn.WriteJSON(map[string]string{"type": "ready"}); err != nil {
			t.Fatalf("write ready: %v", err)
		}
	}
	// A state report after both ready messages proves they were processed.
	if err := conn.WriteJSON(map[string]any{"type": "state", "state": "paused"}); err != nil {
		t.Fatalf("write state: %v", err)
	}
	waitFor(t, "paused state", func() bool { return bridge.State() == playback.StatePaused })

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Fatalf("expected ready callback once, got %d", calls)
	}
}

func TestBridgeTracksReportedState(t *testing.T) {
	bridge, server := newTestBridge(t)

	states := make(chan playback.DeviceState, 4)
	bridge.OnStateChange(func(state playback.DeviceState) { states <- state })

	conn := dial(t, server)
	if err := conn.WriteJSON(map[string]any{"type": "state", "state": "playing", "time": 12.5}); err != nil {
		t.Fatalf("write state: %v", err)
	}

	select {
	case state := <-states:
		if state != playback.StatePlaying {
			t.Fatalf("expected playing, got %v", state)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("state callback not invoked")
	}
	if got := bridge.CurrentTime(); got != 12.5 {
		t.Fatalf("expected time 12.5, got %v", got)
	}

	if err := conn.WriteJSON(map[string]any{"type": "time", "time": 14.0}); err != nil {
		t.Fatalf("write time: %v", err)
	}
	waitFor(t, "time report", func() bool { return bridge.CurrentTime() == 14 })

	if err := conn.WriteJSON(map[string]any{"type": "state", "state": "rewinding"}); err != nil {
		t.Fatalf("write unknown state: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	if err := conn.WriteJSON(map[string]any{"type": "state", "state": "ended"}); err != nil {
		t.Fatalf("write state: %v", err)
	}
	waitFor(t, "ended state", func() bool { return bridge.State() == playback.StateEnded })
}

func TestBridgeSendsCommands(t *testing.T) {
	bridge, server := newTestBridge(t)
	conn := dial(t, server)
	waitFor(t, "connection", bridge.Connected)

	if err := bridge.LoadClip(context.Background(), "dQw4w9WgXcQ", 0, 30); err != nil {
		t.Fatalf("LoadClip returned error: %v", err)
	}
	if bridge.CurrentTime() != 0 {
		t.Fatalf("expected playhead at clip start, got %v", bridge.CurrentTime())
	}

	var load loadCommand
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&load); err != nil {
		t.Fatalf("read load command: %v", err)
	}
	want := loadCommand{Type: "load", Seq: 1, VideoID: "dQw4w9WgXcQ", Start: 0, End: 30}
	if load != want {
		t.Fatalf("unexpected load command: %+v", load)
	}

	if err := bridge.Pause(context.Background()); err != nil {
		t.Fatalf("Pause returned error: %v", err)
	}
	var pause pauseCommand
	if err := conn.ReadJSON(&pause); err != nil {
		t.Fatalf("read pause command: %v", err)
	}
	if pause.Type != "pause" {
		t.Fatalf("expected pause command, got %+v", pause)
	}
}

func TestBridgeIgnoresReportsFromReplacedClip(t *testing.T) {
	bridge, server := newTestBridge(t)
	conn := dial(t, server)
	waitFor(t, "connection", bridge.Connected)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var first, second loadCommand
	if err := bridge.LoadClip(context.Background(), "first", 0, 30); err != nil {
		t.Fatalf("LoadClip returned error: %v", err)
	}
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read first load: %v", err)
	}
	if err := bridge.LoadClip(context.Background(), "second", 5, 20); err != nil {
		t.Fatalf("LoadClip returned error: %v", err)
	}
	if err := conn.ReadJSON(&second); err != nil {
		t.Fatalf("read second load: %v", err)
	}
	if second.Seq <= first.Seq {
		t.Fatalf("expected increasing load seq, got %d then %d", first.Seq, second.Seq)
	}

	if err := conn.WriteJSON(map[string]any{"type": "time", "time": 29.5, "seq": first.Seq}); err != nil {
		t.Fatalf("write late time: %v", err)
	}
	if err := conn.WriteJSON(map[string]any{"type": "state", "state": "ended", "seq": first.Seq}); err != nil {
		t.Fatalf("write late state: %v", err)
	}
	if err := conn.WriteJSON(map[string]any{"type": "state", "state": "playing", "time": 6.0, "seq": second.Seq}); err != nil {
		t.Fatalf("write current state: %v", err)
	}
	waitFor(t, "playing state", func() bool { return bridge.State() == playback.StatePlaying })

	if got := bridge.CurrentTime(); got != 6 {
		t.Fatalf("expected time 6 from current clip, got %v", got)
	}

	if err := conn.WriteJSON(map[string]any{"type": "time", "time": 7.0}); err != nil {
		t.Fatalf("write unsequenced time: %v", err)
	}
	waitFor(t, "unsequenced time", func() bool { return bridge.CurrentTime() == 7 })
}

func TestBridgeLatestConnectionWins(t *testing.T) {
	bridge, server := newTestBridge(t)

	first := dial(t, server)
	waitFor(t, "first connection", bridge.Connected)
	if err := first.WriteJSON(map[string]any{"type": "state", "state": "playing"}); err != nil {
		t.Fatalf("write state: %v", err)
	}
	waitFor(t, "playing state", func() bool { return bridge.State() == playback.StatePlaying })

	second := dial(t, server)
	waitFor(t, "state reset", func() bool { return bridge.State() == playback.StateUnstarted })

	_ = first.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := first.ReadMessage(); err == nil {
		t.Fatal("expected replaced connection to be closed")
	}

	if err := bridge.Pause(context.Background()); err != nil {
		t.Fatalf("Pause returned error: %v", err)
	}
	var pause pauseCommand
	_ = second.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := second.ReadJSON(&pause); err != nil {
		t.Fatalf("read pause on new connection: %v", err)
	}
}

func TestBridgeDisconnectResetsState(t *testing.T) {
	bridge, server := newTestBridge(t)

	conn := dial(t, server)
	if err := conn.WriteJSON(map[string]any{"type": "state", "state": "playing"}); err != nil {
		t.Fatalf("write state: %v", err)
	}
	waitFor(t, "playing state", func() bool { return bridge.State() == playback.StatePlaying })

	_ = conn.Close()
	waitFor(t, "disconnect", func() bool { return !bridge.Connected() })

	if bridge.State() != playback.StateUnstarted {
		t.Fatalf("expected unstarted after disconnect, got %v", bridge.State())
	}
	if err := bridge.Pause(context.Background()); !errors.Is(err, ErrNoClient) {
		t.Fatalf("expected ErrNoClient after disconnect, got %v", err)
	}
}
