package route

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/a-bouts/route-replay/latlon"
)

// Layouts accepted for point timestamps, tried in order. Timestamps without
// a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
}

// Point is one timestamped fix of the vehicle.
type Point struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

func (p Point) LatLon() latlon.LatLon {
	return latlon.LatLon{Lat: p.Latitude, Lon: p.Longitude}
}

func (p *Point) UnmarshalJSON(data []byte) error {
	var raw struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Timestamp string  `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	ts, err := ParseTimestamp(raw.Timestamp)
	if err != nil {
		return err
	}

	p.Latitude = raw.Latitude
	p.Longitude = raw.Longitude
	p.Timestamp = ts
	return nil
}

// ParseTimestamp reads an ISO-8601 instant.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp '%s'", s)
}
