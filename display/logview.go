package display

import (
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/route-replay/latlon"
)

// LogView renders to the log, for runs without a browser attached.
type LogView struct {
	Logger *log.Logger
}

func (v LogView) logger() *log.Logger {
	if v.Logger == nil {
		return log.StandardLogger()
	}
	return v.Logger
}

func (v LogView) PlaceMarker(position latlon.LatLon, heading float64) {
	v.logger().Debugf("Marker at (%f,%f) heading %.0f°", position.Lat, position.Lon, heading)
}

func (v LogView) DrawRoute(path []latlon.LatLon) {
	v.logger().Infof("Route of %d points", len(path))
}

func (v LogView) DrawTraversed(path []latlon.LatLon) {
	v.logger().Debugf("Traversed %d points", len(path))
}

func (v LogView) FitBounds(min, max latlon.LatLon) {
	v.logger().Infof("Bounds (%f,%f) (%f,%f)", min.Lat, min.Lon, max.Lat, max.Lon)
}

func (v LogView) ShowPanel(p Panel) {
	v.logger().WithFields(log.Fields{
		"position": p.Position,
		"elapsed":  p.Elapsed,
		"speed":    p.Speed,
		"progress": p.Progress,
		"status":   p.Status,
	}).Info("Replay")
}
