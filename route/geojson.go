package route

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func (r Route) lineString(index int) orb.LineString {
	path := r.Path(index)
	ls := make(orb.LineString, len(path))
	for i, l := range path {
		ls[i] = orb.Point{l.Lon, l.Lat}
	}
	return ls
}

// FeatureCollection renders the full route as a LineString feature followed
// by its start and end points.
func (r Route) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if len(r) == 0 {
		return fc
	}

	ls := r.lineString(r.Last())
	line := geojson.NewFeature(ls)
	line.Properties["kind"] = "route"
	line.Properties["points"] = len(r)
	line.Properties["length"] = r.Length()
	line.Properties["duration"] = r.Duration()
	line.BBox = geojson.NewBBox(ls.Bound())
	fc.Append(line)

	fc.Append(r.pointFeature(0, "start"))
	fc.Append(r.pointFeature(r.Last(), "end"))

	return fc
}

// Traversed renders r[0..index] as a LineString feature.
func (r Route) Traversed(index int) *geojson.Feature {
	f := geojson.NewFeature(r.lineString(index))
	f.Properties["kind"] = "traversed"
	f.Properties["index"] = index
	return f
}

func (r Route) pointFeature(index int, kind string) *geojson.Feature {
	p := r[index]
	f := geojson.NewFeature(orb.Point{p.Longitude, p.Latitude})
	f.Properties["kind"] = kind
	f.Properties["index"] = index
	f.Properties["timestamp"] = p.Timestamp.Format(time.RFC3339)
	return f
}
