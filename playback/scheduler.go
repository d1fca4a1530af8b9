package playback

import (
	"math"
	"time"

	"github.com/jasonlvhit/gocron"
	log "github.com/sirupsen/logrus"
)

// Scheduler calls fn every d until the returned stop function is called.
type Scheduler interface {
	Every(d time.Duration, fn func()) (stop func())
}

// CronScheduler runs a dedicated gocron scheduler per registration.
// gocron has a one second resolution, shorter intervals are rounded up.
type CronScheduler struct{}

func (CronScheduler) Every(d time.Duration, fn func()) func() {
	seconds := uint64(math.Ceil(d.Seconds()))
	if seconds < 1 {
		seconds = 1
	}

	s := gocron.NewScheduler()
	if err := s.Every(seconds).Seconds().Do(fn); err != nil {
		log.WithError(err).WithField("seconds", seconds).Error("Error scheduling tick")
		return func() {}
	}
	stopped := s.Start()

	// gocron does not lock its job list, so the scheduler is only told to
	// stop and then dropped. A job already running is discarded by the
	// caller's generation check.
	return func() {
		close(stopped)
	}
}
