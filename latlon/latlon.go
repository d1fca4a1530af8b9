package latlon

import "math"

const π = math.Pi

// R is the mean earth radius in meters.
const R = 6371e3

type LatLonInterface interface {
	DistanceTo(from, to LatLon) float64
	BearingTo(from, to LatLon) float64
	DistanceAndBearingTo(from, to LatLon) (float64, float64)
	Destination(from LatLon, bearing float64, distance float64) LatLon
}

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds returns the south-west and north-east corners of the box enclosing
// latlons. Both are zero when latlons is empty.
func Bounds(latlons []LatLon) (LatLon, LatLon) {
	if len(latlons) == 0 {
		return LatLon{}, LatLon{}
	}
	min, max := latlons[0], latlons[0]
	for _, l := range latlons[1:] {
		min.Lat = math.Min(min.Lat, l.Lat)
		min.Lon = math.Min(min.Lon, l.Lon)
		max.Lat = math.Max(max.Lat, l.Lat)
		max.Lon = math.Max(max.Lon, l.Lon)
	}
	return min, max
}

func toRadians(a float64) float64 {
	return a * π / 180.0
}

func toDegrees(a float64) float64 {
	return a * 180.0 / π
}

func wrap360(d float64) float64 {
	if 0.0 <= d && d < 360.0 {
		return d
	}
	d1 := d + 360.0
	d2 := d1 - float64(int(d1/360.0)*360)
	return d2
}

func wrap180(d float64) float64 {
	if -180.0 <= d && d <= 180.0 {
		return d
	}
	return wrap360(d+180.0) - 180.0
}
