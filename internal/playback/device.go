package playback

import (
	"context"
	"fmt"
)

// DeviceState mirrors the states reported by the embedded video player.
type DeviceState int

const (
	StateUnstarted DeviceState = iota
	StatePlaying
	StatePaused
	StateEnded
	StateBuffering
)

var deviceStateNames = map[DeviceState]string{
	StateUnstarted: "unstarted",
	StatePlaying:   "playing",
	StatePaused:    "paused",
	StateEnded:     "ended",
	StateBuffering: "buffering",
}

func (s DeviceState) String() string {
	if name, ok := deviceStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("DeviceState(%d)", int(s))
}

// MarshalText encodes the state by name.
func (s DeviceState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name written by MarshalText.
func (s *DeviceState) UnmarshalText(text []byte) error {
	state, err := ParseDeviceState(string(text))
	if err != nil {
		return err
	}
	*s = state
	return nil
}

// ParseDeviceState maps a reported state name back to a DeviceState.
func ParseDeviceState(name string) (DeviceState, error) {
	for state, candidate := range deviceStateNames {
		if candidate == name {
			return state, nil
		}
	}
	return StateUnstarted, fmt.Errorf("unknown device state %q", name)
}

// Device is the video player the controller drives. Readiness and state
// changes are pushed to the controller through DeviceReady and
// DeviceStateChanged.
type Device interface {
	// LoadClip loads videoID and starts playing it between start and end seconds.
	LoadClip(ctx context.Context, videoID string, start, end int) error
	Pause(ctx context.Context) error
	// CurrentTime returns the playhead position in seconds.
	CurrentTime() float64
	State() DeviceState
}
