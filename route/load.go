package route

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"path"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tkrajina/gpxgo/gpx"
)

// Load reads the route found at src. src is either a file path or an
// http(s) URL. A '.gpx' suffix selects the GPX decoder, anything else is
// read as a JSON array of points.
func Load(ctx context.Context, src string) (Route, error) {
	content, err := read(ctx, src)
	if err != nil {
		return nil, err
	}

	var r Route
	if strings.EqualFold(path.Ext(strings.SplitN(src, "?", 2)[0]), ".gpx") {
		r, err = ParseGPX(content)
	} else {
		r, err = ParseJSON(bytes.NewReader(content))
	}
	if err != nil {
		return nil, fmt.Errorf("parse route '%s': %w", src, err)
	}

	if b := r.Backtracks(); len(b) > 0 {
		log.WithField("indexes", b).Warnf("Route '%s' has out of order timestamps", src)
	}

	return r, nil
}

func read(ctx context.Context, src string) ([]byte, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		content, err := ioutil.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("read route '%s': %w", src, err)
		}
		return content, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch route '%s': %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch route '%s': status %d", src, resp.StatusCode)
	}

	return ioutil.ReadAll(resp.Body)
}

// ParseJSON decodes a JSON array of {latitude, longitude, timestamp}.
func ParseJSON(r io.Reader) (Route, error) {
	var points []Point
	if err := json.NewDecoder(r).Decode(&points); err != nil {
		return nil, err
	}
	return Route(points), nil
}

// ParseGPX flattens every track segment of a GPX document, in document order.
func ParseGPX(content []byte) (Route, error) {
	g, err := gpx.ParseBytes(content)
	if err != nil {
		return nil, err
	}

	var r Route
	for _, track := range g.Tracks {
		for _, segment := range track.Segments {
			for _, p := range segment.Points {
				r = append(r, Point{
					Latitude:  p.Latitude,
					Longitude: p.Longitude,
					Timestamp: p.Timestamp,
				})
			}
		}
	}
	return r, nil
}
