package route

import "github.com/a-bouts/route-replay/latlon"

var geodesic latlon.LatLonInterface = latlon.LatLonHaversine{}

// Elapsed returns the seconds between the timestamps of from and to.
func Elapsed(from, to Point) float64 {
	return to.Timestamp.Sub(from.Timestamp).Seconds()
}

// Speed returns the mean speed in m/s needed to cover the great-circle
// distance between p1 and p2 in the time separating them. Identical
// timestamps give 0. Out of order timestamps give a negative speed.
func Speed(p1, p2 Point) float64 {
	dt := Elapsed(p1, p2)
	if dt == 0 {
		return 0
	}

	return geodesic.DistanceTo(p1.LatLon(), p2.LatLon()) / dt
}

// Heading returns the initial bearing from p1 to p2 in degrees.
func Heading(p1, p2 Point) float64 {
	return geodesic.BearingTo(p1.LatLon(), p2.LatLon())
}
