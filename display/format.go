package display

import (
	"fmt"
	"math"

	"github.com/a-bouts/route-replay/route"
)

const Loading = "Loading..."

// FormatTime renders seconds as M:SS.
func FormatTime(seconds float64) string {
	mins := int(math.Floor(seconds / 60))
	secs := int(math.Floor(math.Mod(seconds, 60)))
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// FormatSpeed renders a speed given in m/s as km/h.
func FormatSpeed(speed float64) string {
	return fmt.Sprintf("%.1f km/h", speed*3.6)
}

func FormatProgress(index, total int) string {
	return fmt.Sprintf("%d / %d points", index+1, total)
}

// ProgressPercent is the width of the progress bar, 0 for an empty route.
func ProgressPercent(index, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(index+1) / float64(total) * 100
}

func FormatLat(p route.Point) string {
	return fmt.Sprintf("Lat: %.6f", p.Latitude)
}

func FormatLng(p route.Point) string {
	return fmt.Sprintf("Lng: %.6f", p.Longitude)
}
