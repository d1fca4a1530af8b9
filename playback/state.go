package playback

import (
	"fmt"

	"github.com/a-bouts/route-replay/route"
)

type Status int

const (
	Stopped Status = iota
	Playing
	Finished
)

func (s Status) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "stopped":
		*s = Stopped
	case "playing":
		*s = Playing
	case "finished":
		*s = Finished
	default:
		return fmt.Errorf("unknown status '%s'", text)
	}
	return nil
}

// State is a snapshot of the controller. Elapsed, Speed and Heading are the
// metrics of Index and nothing else.
type State struct {
	Index          int         `json:"index"`
	Total          int         `json:"total"`
	Playing        bool        `json:"playing"`
	Status         Status      `json:"status"`
	ElapsedSeconds float64     `json:"elapsedSeconds"`
	Speed          float64     `json:"speed"`
	Heading        float64     `json:"heading"`
	Position       route.Point `json:"position"`
}

// AtEnd reports whether Index is the last point of the route.
func (s State) AtEnd() bool {
	return s.Index >= s.Total-1
}

// Observer is called after every state change.
type Observer func(State)
