package domain

import (
	"time"
)

// Bucket label layouts, interpreted in the location of the "now" passed to the limiter.
const (
	DayLayout  = "2006-01-02"
	HourLayout = "2006-01-02-15"
)

// Window names one of the two independent counter tables.
type Window string

const (
	WindowDaily  Window = "daily"
	WindowHourly Window = "hourly"
)

// Span is how long a bucket of the window lives, measured from the bucket's start.
func (w Window) Span() time.Duration {
	if w == WindowDaily {
		return 24 * time.Hour
	}
	return time.Hour
}

func (w Window) layout() string {
	if w == WindowDaily {
		return DayLayout
	}
	return HourLayout
}

// Label returns the bucket label containing t.
func (w Window) Label(t time.Time) string {
	return t.Format(w.layout())
}

// Start returns the start of the bucket containing t.
func (w Window) Start(t time.Time) time.Time {
	if w == WindowDaily {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// ParseLabel returns the start time of a bucket label in loc.
func (w Window) ParseLabel(label string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(w.layout(), label, loc)
}

// WindowTable maps bucket label -> session id -> request count.
type WindowTable map[string]map[string]int

// Count returns the session's count in a bucket, 0 when absent.
func (t WindowTable) Count(label, sessionID string) int {
	if sessions, ok := t[label]; ok {
		return sessions[sessionID]
	}
	return 0
}

// Increment adds one to the session's count, creating the bucket if needed.
func (t WindowTable) Increment(label, sessionID string) int {
	sessions, ok := t[label]
	if !ok {
		sessions = make(map[string]int)
		t[label] = sessions
	}
	sessions[sessionID]++
	return sessions[sessionID]
}

// Tables is the persisted document: {"daily": {...}, "hourly": {...}}.
type Tables struct {
	Daily  WindowTable `json:"daily"`
	Hourly WindowTable `json:"hourly"`
}

// NewTables returns an empty table pair.
func NewTables() *Tables {
	return &Tables{
		Daily:  make(WindowTable),
		Hourly: make(WindowTable),
	}
}

// Normalize replaces nil tables so callers never write into a nil map.
func (t *Tables) Normalize() *Tables {
	if t.Daily == nil {
		t.Daily = make(WindowTable)
	}
	if t.Hourly == nil {
		t.Hourly = make(WindowTable)
	}
	return t
}

// Table returns the table for w.
func (t *Tables) Table(w Window) WindowTable {
	if w == WindowDaily {
		return t.Daily
	}
	return t.Hourly
}

// Clone returns a deep copy.
func (t *Tables) Clone() *Tables {
	out := NewTables()
	for _, w := range []Window{WindowDaily, WindowHourly} {
		dst := out.Table(w)
		for label, sessions := range t.Table(w) {
			cp := make(map[string]int, len(sessions))
			for id, n := range sessions {
				cp[id] = n
			}
			dst[label] = cp
		}
	}
	return out
}

// Prune drops every bucket that is at least one window span old relative to now,
// and every bucket whose label does not parse. It returns the number of buckets removed.
func (t *Tables) Prune(now time.Time) int {
	removed := 0
	for _, w := range []Window{WindowDaily, WindowHourly} {
		table := t.Table(w)
		for label := range table {
			start, err := w.ParseLabel(label, now.Location())
			if err != nil || now.Sub(start) >= w.Span() {
				delete(table, label)
				removed++
			}
		}
	}
	return removed
}
