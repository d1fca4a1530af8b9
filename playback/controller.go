package playback

import (
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/route-replay/route"
)

// DefaultInterval is the time between two ticks.
const DefaultInterval = 2 * time.Second

var ErrEmptyRoute = errors.New("route has no point")

type Option func(*Controller)

func WithInterval(d time.Duration) Option {
	return func(c *Controller) {
		c.interval = d
	}
}

func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		c.scheduler = s
	}
}

// Controller walks an index along a route, one point per tick.
//
// The timer is owned by the armed generation: every Play registers a new
// callback bound to a fresh generation and every way out of Playing
// (Pause, Reset, the end of the route, Close) stops it and bumps the
// generation, so a callback already in flight finds a stale generation and
// does nothing.
//
// Observers are called with the controller locked and must not call it back.
type Controller struct {
	route     route.Route
	interval  time.Duration
	scheduler Scheduler

	mu         sync.Mutex
	state      State
	generation uint64
	stop       func()
	observers  []Observer
}

func New(r route.Route, opts ...Option) (*Controller, error) {
	if len(r) == 0 {
		return nil, ErrEmptyRoute
	}

	c := &Controller{
		route:     r,
		interval:  DefaultInterval,
		scheduler: CronScheduler{},
		state:     stateAt(r, 0),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Controller) Route() route.Route {
	return c.route
}

func (c *Controller) Interval() time.Duration {
	return c.interval
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers o, which is immediately called with the current state.
func (c *Controller) Subscribe(o Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
	o(c.state)
}

// Play starts ticking. It does nothing when already playing or at the last
// point.
func (c *Controller) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.play()
}

func (c *Controller) play() {
	if c.state.Playing || c.state.AtEnd() {
		return
	}

	c.arm()
	c.state.Playing = true
	c.state.Status = Playing
	log.WithField("index", c.state.Index).Debug("Play")
	c.notify()
}

// Pause stops ticking and keeps the current point.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pause()
}

func (c *Controller) pause() {
	if !c.state.Playing {
		return
	}

	c.disarm()
	c.state.Playing = false
	c.state.Status = Stopped
	log.WithField("index", c.state.Index).Debug("Pause")
	c.notify()
}

// Toggle pauses when playing and plays otherwise.
func (c *Controller) Toggle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Playing {
		c.pause()
	} else {
		c.play()
	}
}

// Reset stops ticking and goes back to the first point.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.disarm()
	c.state = stateAt(c.route, 0)
	log.Debug("Reset")
	c.notify()
}

// Tick advances by one point. Called while paused it steps once.
func (c *Controller) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.advance()
}

// Close stops ticking for good.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.disarm()
	if c.state.Playing {
		c.state.Playing = false
		c.state.Status = Stopped
		c.notify()
	}
}

func (c *Controller) tick(generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation || !c.state.Playing {
		log.WithField("generation", generation).Debug("Stale tick ignored")
		return
	}
	c.advance()
}

func (c *Controller) advance() {
	if c.state.AtEnd() {
		c.finish()
		c.notify()
		return
	}

	playing := c.state.Playing
	c.state = stateAt(c.route, c.state.Index+1)
	c.state.Playing = playing
	if playing {
		c.state.Status = Playing
	}

	if c.state.Speed < 0 {
		log.WithFields(log.Fields{
			"index": c.state.Index,
			"speed": c.state.Speed,
		}).Debug("Negative speed, timestamps out of order")
	}

	if c.state.AtEnd() {
		c.finish()
	}
	c.notify()
}

func (c *Controller) finish() {
	c.disarm()
	c.state.Playing = false
	c.state.Status = Finished
}

func (c *Controller) arm() {
	c.disarm()
	c.generation++
	generation := c.generation
	c.stop = c.scheduler.Every(c.interval, func() {
		c.tick(generation)
	})
}

func (c *Controller) disarm() {
	c.generation++
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
}

func (c *Controller) notify() {
	for _, o := range c.observers {
		o(c.state)
	}
}
