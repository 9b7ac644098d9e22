package model

import "time"

// PlayLog records what a device actually played. Append-only.
type PlayLog struct {
	ID        int        `db:"id"         json:"id"`
	DeviceID  int        `db:"device_id"  json:"deviceId"`
	MediaID   int        `db:"media_id"   json:"mediaId"`
	StartedAt time.Time  `db:"started_at" json:"startedAt"`
	EndedAt   *time.Time `db:"ended_at"   json:"endedAt,omitempty"`
	Status    string     `db:"status"     json:"status"`
	Notes     *string    `db:"notes"      json:"notes,omitempty"`
}
