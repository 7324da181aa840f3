package domain

import "time"

// RateLimitCounter is one row of the relational store: a session's count in one bucket.
type RateLimitCounter struct {
	Window    string    `gorm:"primaryKey;size:16"`
	Bucket    string    `gorm:"primaryKey;size:32"`
	SessionID string    `gorm:"primaryKey;size:255"`
	Count     int       `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (RateLimitCounter) TableName() string {
	return "rate_limit_counters"
}

// ToCounters flattens the tables into rows.
func (t *Tables) ToCounters() []RateLimitCounter {
	var rows []RateLimitCounter
	for _, w := range []Window{WindowDaily, WindowHourly} {
		for label, sessions := range t.Table(w) {
			for id, n := range sessions {
				rows = append(rows, RateLimitCounter{
					Window:    string(w),
					Bucket:    label,
					SessionID: id,
					Count:     n,
				})
			}
		}
	}
	return rows
}

// TablesFromCounters rebuilds the tables from rows. Rows with an unknown window are skipped.
func TablesFromCounters(rows []RateLimitCounter) *Tables {
	t := NewTables()
	for _, r := range rows {
		var table WindowTable
		switch Window(r.Window) {
		case WindowDaily:
			table = t.Daily
		case WindowHourly:
			table = t.Hourly
		default:
			continue
		}
		sessions, ok := table[r.Bucket]
		if !ok {
			sessions = make(map[string]int)
			table[r.Bucket] = sessions
		}
		sessions[r.SessionID] = r.Count
	}
	return t
}
