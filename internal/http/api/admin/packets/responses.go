package packets

import (
	"time"

	"github.com/Nixie-Tech-LLC/cadence/internal/model"
	"github.com/Nixie-Tech-LLC/cadence/internal/presence"
	"github.com/Nixie-Tech-LLC/cadence/internal/schedule"
)

// RESPONSES FOR /api/admin/*

type DeviceResponse struct {
	ID            int     `json:"id"`
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	GroupID       *int    `json:"groupId"`
	LastSeen      *string `json:"lastSeen"`
	PlayerVersion *string `json:"playerVersion"`
	Online        bool    `json:"online"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

func NewDeviceResponse(d model.Device, now time.Time) DeviceResponse {
	out := DeviceResponse{
		ID:            d.ID,
		Code:          d.Code,
		Name:          d.Name,
		GroupID:       d.GroupID,
		PlayerVersion: d.PlayerVersion,
		Online:        presence.IsOnline(d, now),
		CreatedAt:     d.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     d.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if d.LastSeen != nil {
		seen := d.LastSeen.UTC().Format(time.RFC3339)
		out.LastSeen = &seen
	}
	return out
}

type SchedulePreviewResponse struct {
	Device string `json:"device"`
	At     string `json:"at"`
	schedule.Result
}

type CommandsResponse struct {
	Commands []model.PlayerCommand `json:"commands"`
}

// PresenceResponse Source is "cache" when read from Redis, "store" when
// derived from device records.
type PresenceResponse struct {
	Online []string `json:"online"`
	Source string   `json:"source"`
}
