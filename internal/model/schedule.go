package model

import (
	"time"

	"github.com/lib/pq"
)

// TimeSlot binds one playlist to one screen for a recurring
// day-of-week + time-of-day window, optionally bounded by calendar dates.
// Times are zero-padded 24h "HH:MM" strings compared lexically, so a slot
// cannot cross midnight.
type TimeSlot struct {
	ID         int           `db:"id"          json:"id"`
	PlaylistID int           `db:"playlist_id" json:"playlist_id"`
	ScreenID   int           `db:"screen_id"   json:"screen_id"`
	StartTime  string        `db:"start_time"  json:"start_time"`
	EndTime    string        `db:"end_time"    json:"end_time"`
	Days       pq.Int64Array `db:"days"        json:"days"` // 0=Sunday .. 6=Saturday
	StartDate  *time.Time    `db:"start_date"  json:"start_date,omitempty"`
	EndDate    *time.Time    `db:"end_date"    json:"end_date,omitempty"`
	IsActive   bool          `db:"is_active"   json:"is_active"`
	CreatedBy  int           `db:"created_by"  json:"created_by"`
	CreatedAt  time.Time     `db:"created_at"  json:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at"  json:"updated_at"`
}

// HasDay reports whether weekday (0=Sunday) is part of the slot's recurrence.
func (s TimeSlot) HasDay(weekday int) bool {
	for _, d := range s.Days {
		if int(d) == weekday {
			return true
		}
	}
	return false
}
