package model

import "time"

// Device represents a player registered by an operator.
type Device struct {
	ID            int        `db:"id"             json:"id"`
	Code          string     `db:"code"           json:"code"`
	Name          string     `db:"name"           json:"name"`
	GroupID       *int       `db:"group_id"       json:"groupId"`
	LastSeen      *time.Time `db:"last_seen"      json:"lastSeen"`
	PlayerVersion *string    `db:"player_version" json:"playerVersion"`
	CreatedAt     time.Time  `db:"created_at"     json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at"     json:"updatedAt"`
}

type DeviceGroup struct {
	ID        int       `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
