// Package countdown gates the fireworks on a launch instant
package countdown

import (
	"context"
	"fmt"
	"time"

	"github.com/lixenwraith/fireworks/engine"
)

// Remaining is the whole time left before launch, truncated per unit
type Remaining struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// Until breaks the time to target into units, false once target is reached
func Until(target, now time.Time) (Remaining, bool) {
	d := target.Sub(now)
	if d <= 0 {
		return Remaining{}, false
	}
	secs := int64(d / time.Second)
	return Remaining{
		Days:    int(secs / 86400),
		Hours:   int(secs / 3600 % 24),
		Minutes: int(secs / 60 % 60),
		Seconds: int(secs % 60),
	}, true
}

func (r Remaining) String() string {
	if r.Days > 0 {
		return fmt.Sprintf("%dd %02dh %02dm %02ds", r.Days, r.Hours, r.Minutes, r.Seconds)
	}
	return fmt.Sprintf("%02dh %02dm %02ds", r.Hours, r.Minutes, r.Seconds)
}

// Wait blocks until target, calling show with the remaining time on every ticker period
// Returns ctx.Err if cancelled first; a past or zero target returns immediately
func Wait(ctx context.Context, clock engine.TimeProvider, newTicker engine.TickerFunc, target time.Time, period time.Duration, show func(Remaining)) error {
	if target.IsZero() {
		return nil
	}
	r, pending := Until(target, clock.Now())
	if !pending {
		return nil
	}
	if show != nil {
		show(r)
	}

	ticker := newTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
			r, pending = Until(target, clock.Now())
			if !pending {
				return nil
			}
			if show != nil {
				show(r)
			}
		}
	}
}
