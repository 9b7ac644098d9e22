package packets

import (
	"time"

	"github.com/Nixie-Tech-LLC/cadence/internal/model"
)

// REQUESTS FOR /api/player/*

type HeartbeatRequest struct {
	Device  string  `json:"device"  binding:"required"`
	Version *string `json:"version"`
}

type AckRequest struct {
	Status  model.CommandStatus `json:"status"`
	Message *string             `json:"message"`
}

type PlayLogEntry struct {
	MediaID   int        `json:"mediaId"   binding:"required"`
	StartedAt time.Time  `json:"startedAt" binding:"required"`
	EndedAt   *time.Time `json:"endedAt"`
	Status    string     `json:"status"    binding:"required"`
	Notes     *string    `json:"notes"`
}

type PlayLogRequest struct {
	Device  string         `json:"device"  binding:"required"`
	Entries []PlayLogEntry `json:"entries" binding:"dive"`
}
