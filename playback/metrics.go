package playback

import "github.com/a-bouts/route-replay/route"

// metrics returns the elapsed seconds since the first point, the speed of the
// segment ending at index and its heading. Index 0 has no segment.
func metrics(r route.Route, index int) (elapsed, speed, heading float64) {
	if index <= 0 {
		return 0, 0, 0
	}

	elapsed = route.Elapsed(r[0], r[index])
	speed = route.Speed(r[index-1], r[index])
	heading = route.Heading(r[index-1], r[index])
	return
}

func stateAt(r route.Route, index int) State {
	elapsed, speed, heading := metrics(r, index)
	return State{
		Index:          index,
		Total:          len(r),
		ElapsedSeconds: elapsed,
		Speed:          speed,
		Heading:        heading,
		Position:       r[index],
	}
}

// Initial is the state of r before playback starts.
func Initial(r route.Route) State {
	return stateAt(r, 0)
}
