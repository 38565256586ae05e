package service

import (
	"sync"
	"time"
)

// Clock returns the current instant. Services take one so tests can pin time;
// whatever zone it reports, services store its readings in UTC.
type Clock func() time.Time

// MonotonicClock returns UTC readings at microsecond resolution that are
// strictly increasing within the process, so two records created back to back
// never share a createdAt.
func MonotonicClock() Clock {
	var (
		mu   sync.Mutex
		last time.Time
	)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()

		now := time.Now().UTC().Truncate(time.Microsecond)
		if !now.After(last) {
			now = last.Add(time.Microsecond)
		}
		last = now
		return now
	}
}

// utcClock pins readings of c to UTC. createdAt is compared as text in the
// store, so every stored value and every cursor must share one offset.
func utcClock(c Clock) Clock {
	if c == nil {
		return MonotonicClock()
	}
	return func() time.Time { return c().UTC() }
}

// today is the calendar date of t in local time.
func today(t time.Time) (year, month, day int) {
	l := t.Local()
	return l.Year(), int(l.Month()), l.Day()
}
