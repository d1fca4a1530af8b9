package route

import (
	"github.com/a-bouts/route-replay/latlon"
)

// Route is the ordered, immutable list of points the vehicle goes through.
// Index order is traversal order.
type Route []Point

func (r Route) Last() int {
	return len(r) - 1
}

// LatLons returns the coordinates of every point.
func (r Route) LatLons() []latlon.LatLon {
	return r.Path(r.Last())
}

// Path returns the coordinates of r[0..index].
func (r Route) Path(index int) []latlon.LatLon {
	if index >= len(r) {
		index = r.Last()
	}
	if index < 0 {
		return []latlon.LatLon{}
	}

	path := make([]latlon.LatLon, index+1)
	for i := 0; i <= index; i++ {
		path[i] = r[i].LatLon()
	}
	return path
}

// Length returns the great-circle length of the route in meters.
func (r Route) Length() float64 {
	var d float64
	for i := 1; i < len(r); i++ {
		d += geodesic.DistanceTo(r[i-1].LatLon(), r[i].LatLon())
	}
	return d
}

// Duration returns the seconds between the first and the last point.
func (r Route) Duration() float64 {
	if len(r) == 0 {
		return 0
	}
	return Elapsed(r[0], r[r.Last()])
}

// Backtracks returns the indexes i for which r[i] is timestamped before r[i-1].
func (r Route) Backtracks() []int {
	var res []int
	for i := 1; i < len(r); i++ {
		if r[i].Timestamp.Before(r[i-1].Timestamp) {
			res = append(res, i)
		}
	}
	return res
}
