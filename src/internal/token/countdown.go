package token

import (
	"sync"
	"time"
)

// Remaining is the display projection of a token's outstanding lifetime.
// It is derived, read-only state and never feeds back into validity.
type Remaining struct {
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Zero reports whether no lifetime remains.
func (r Remaining) Zero() bool {
	return r.Minutes == 0 && r.Seconds == 0
}

// TimeRemaining computes whole minutes and seconds until expiresAt,
// floor-rounded and clamped to zero once expired.
func TimeRemaining(expiresAt, now time.Time) Remaining {
	left := expiresAt.Sub(now)
	if left < 0 {
		left = 0
	}

	total := int(left / time.Second)
	return Remaining{
		Minutes: total / 60,
		Seconds: total % 60,
	}
}

// Countdown invokes onTick with the remaining lifetime once per second
// until stopped. Presentational only.
type Countdown struct {
	stop chan struct{}
	once sync.Once
}

func StartCountdown(expiresAt time.Time, onTick func(Remaining)) *Countdown {
	c := &Countdown{stop: make(chan struct{})}

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-c.stop:
				return
			case now := <-ticker.C:
				onTick(TimeRemaining(expiresAt, now))
			}
		}
	}()

	return c
}

func (c *Countdown) Stop() {
	c.once.Do(func() {
		close(c.stop)
	})
}
