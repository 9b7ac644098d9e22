package model

import (
	"time"

	"github.com/lib/pq"
)

// Assignment is a recurring schedule rule binding a playlist to a device group.
// StartTime and EndTime are minutes since midnight, half-open [start, end).
type Assignment struct {
	ID         int           `db:"id"           json:"id"`
	GroupID    int           `db:"group_id"     json:"groupId"`
	PlaylistID int           `db:"playlist_id"  json:"playlistId"`
	DaysOfWeek pq.Int64Array `db:"days_of_week" json:"daysOfWeek"`
	StartTime  int           `db:"start_time"   json:"startTime"`
	EndTime    int           `db:"end_time"     json:"endTime"`
	Priority   int           `db:"priority"     json:"priority"`
	CreatedAt  time.Time     `db:"created_at"   json:"createdAt"`
}

// HasDay reports whether the rule is active on the given weekday (Sunday=0).
func (a Assignment) HasDay(day int) bool {
	for _, d := range a.DaysOfWeek {
		if int(d) == day {
			return true
		}
	}
	return false
}
