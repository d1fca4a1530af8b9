package display

import "github.com/a-bouts/route-replay/latlon"

// View is a rendering surface: a map with one vehicle marker, the full route,
// the traversed part of it and a panel of values.
type View interface {
	PlaceMarker(position latlon.LatLon, heading float64)
	DrawRoute(path []latlon.LatLon)
	DrawTraversed(path []latlon.LatLon)
	FitBounds(min, max latlon.LatLon)
	ShowPanel(panel Panel)
}

// Panel holds the text shown next to the map.
type Panel struct {
	Lat          string  `json:"lat,omitempty"`
	Lng          string  `json:"lng,omitempty"`
	Position     string  `json:"position"`
	Elapsed      string  `json:"elapsed"`
	Speed        string  `json:"speed"`
	Progress     string  `json:"progress"`
	Percent      float64 `json:"percent"`
	Status       string  `json:"status"`
	PlayLabel    string  `json:"playLabel"`
	PlayDisabled bool    `json:"playDisabled"`
}

// LoadingPanel is shown until a route is available.
func LoadingPanel() Panel {
	return Panel{
		Position:     Loading,
		Elapsed:      FormatTime(0),
		Speed:        FormatSpeed(0),
		Progress:     FormatProgress(0, 0),
		Status:       "loading",
		PlayLabel:    "Play",
		PlayDisabled: true,
	}
}
