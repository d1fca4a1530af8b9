package display

import (
	"sync"

	"github.com/a-bouts/route-replay/latlon"
	"github.com/a-bouts/route-replay/playback"
	"github.com/a-bouts/route-replay/route"
)

// Frame is the last picture pushed to the views.
type Frame struct {
	Route     []latlon.LatLon `json:"route"`
	Min       latlon.LatLon   `json:"min"`
	Max       latlon.LatLon   `json:"max"`
	Marker    latlon.LatLon   `json:"marker"`
	Heading   float64         `json:"heading"`
	Traversed []latlon.LatLon `json:"traversed"`
	Panel     Panel           `json:"panel"`
}

// Adapter turns playback states into view updates.
type Adapter struct {
	route route.Route
	views []View

	mu    sync.RWMutex
	frame Frame
}

func NewAdapter(r route.Route, views ...View) *Adapter {
	min, max := latlon.Bounds(r.LatLons())
	return &Adapter{
		route: r,
		views: views,
		frame: Frame{
			Route: r.LatLons(),
			Min:   min,
			Max:   max,
			Panel: LoadingPanel(),
		},
	}
}

func (a *Adapter) AddView(v View) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.views = append(a.views, v)
}

// Frame returns the last frame, for views joining late.
func (a *Adapter) Frame() Frame {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.frame
}

// Init draws the whole route, fits the views to it and shows the first point.
func (a *Adapter) Init() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.route) == 0 {
		for _, v := range a.views {
			v.ShowPanel(a.frame.Panel)
		}
		return
	}

	for _, v := range a.views {
		v.DrawRoute(a.frame.Route)
		v.FitBounds(a.frame.Min, a.frame.Max)
	}
	a.render(playback.Initial(a.route))
}

// Update is a playback.Observer.
func (a *Adapter) Update(s playback.State) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.render(s)
}

func (a *Adapter) render(s playback.State) {
	a.frame.Marker = s.Position.LatLon()
	a.frame.Heading = s.Heading
	a.frame.Traversed = a.route.Path(s.Index)
	a.frame.Panel = NewPanel(s)

	for _, v := range a.views {
		v.PlaceMarker(a.frame.Marker, a.frame.Heading)
		v.DrawTraversed(a.frame.Traversed)
		v.ShowPanel(a.frame.Panel)
	}
}

func NewPanel(s playback.State) Panel {
	label := "Play"
	if s.Playing {
		label = "Pause"
	}

	return Panel{
		Lat:          FormatLat(s.Position),
		Lng:          FormatLng(s.Position),
		Position:     FormatLat(s.Position) + " " + FormatLng(s.Position),
		Elapsed:      FormatTime(s.ElapsedSeconds),
		Speed:        FormatSpeed(s.Speed),
		Progress:     FormatProgress(s.Index, s.Total),
		Percent:      ProgressPercent(s.Index, s.Total),
		Status:       s.Status.String(),
		PlayLabel:    label,
		PlayDisabled: s.AtEnd(),
	}
}
