package model

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

type Clock struct {
	mu          sync.Mutex
	timeLeft    time.Duration
	lastStarted time.Time // When the clock was last started
	isRunning   bool
	now         func() time.Time
}

func NewClock(initialTime time.Duration) *Clock {
	return &Clock{
		timeLeft:  initialTime,
		isRunning: false,
		now:       time.Now,
	}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		c.lastStarted = c.now()
		log.Debugf("clock started at %s with %s left", c.lastStarted.Format(time.RFC3339), c.timeLeft)
		c.isRunning = true
	}
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		c.timeLeft -= c.now().Sub(c.lastStarted)
		log.Debugf("clock stopped with %s left", c.timeLeft)
		c.isRunning = false
	}
}

func (c *Clock) GetTimeLeft() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.timeLeftLocked()
}

func (c *Clock) timeLeftLocked() time.Duration {
	left := c.timeLeft
	if c.isRunning {
		left -= c.now().Sub(c.lastStarted)
	}
	if left < 0 {
		return 0
	}
	return left
}

// Expired reports whether the clock has run down to zero.
func (c *Clock) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.timeLeftLocked() <= 0
}

// deciseconds is the unit clients display.
func deciseconds(d time.Duration) int {
	return int(d.Milliseconds() / 100)
}
