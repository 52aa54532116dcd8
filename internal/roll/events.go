package roll

import (
	"encoding/json"
	"errors"
)

// Event is the wire envelope pushed to player screens. Constructors marshal
// once so a broadcast to N subscribers serializes a single time.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type ModeData struct {
	Mode       ScreenMode `json:"mode"`
	BrowserURL string     `json:"browserUrl"`
}

type PlaybackData struct {
	Command  string   `json:"command"`
	Position *float64 `json:"position,omitempty"`
}

func RollEvent(rec Record) []byte {
	payload, _ := json.Marshal(Event{Type: "roll", Data: rec})
	return payload
}

func ClearEvent() []byte {
	payload, _ := json.Marshal(Event{Type: "clear"})
	return payload
}

func ModeEvent(mode ScreenMode, browserURL string) []byte {
	payload, _ := json.Marshal(Event{Type: "mode", Data: ModeData{Mode: mode, BrowserURL: browserURL}})
	return payload
}

func PlaybackEvent(command string, position *float64) []byte {
	payload, _ := json.Marshal(Event{Type: "youtube_playback", Data: PlaybackData{Command: command, Position: position}})
	return payload
}

const (
	PlaybackPlay  = "play"
	PlaybackPause = "pause"
	PlaybackSeek  = "seek"
)

var (
	ErrInvalidCommand  = errors.New("invalid playback command")
	ErrMissingPosition = errors.New("seek requires a numeric position")
)

// ValidatePlayback checks a playback command before it is broadcast.
// Only seek carries a position.
func ValidatePlayback(command string, position *float64) error {
	switch command {
	case PlaybackPlay, PlaybackPause:
		return nil
	case PlaybackSeek:
		if position == nil {
			return ErrMissingPosition
		}
		return nil
	default:
		return ErrInvalidCommand
	}
}
