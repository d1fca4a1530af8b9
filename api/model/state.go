package model

import (
	"github.com/a-bouts/route-replay/display"
	"github.com/a-bouts/route-replay/playback"
)

type Health struct {
	Status string `json:"status"`
	Points int    `json:"points"`
}

// State is returned by every control endpoint.
type State struct {
	Loaded bool            `json:"loaded"`
	State  *playback.State `json:"state,omitempty"`
	Panel  display.Panel   `json:"panel"`
}

type Error struct {
	Error string `json:"error"`
}

// Message is what the hub pushes to websocket clients.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Command is what websocket clients may send.
type Command struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp,omitempty"`
}

type Marker struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Heading float64 `json:"heading"`
}

type Bounds struct {
	Min [2]float64 `json:"min"`
	Max [2]float64 `json:"max"`
}
