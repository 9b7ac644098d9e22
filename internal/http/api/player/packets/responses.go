package packets

import (
	"time"

	"github.com/Nixie-Tech-LLC/cadence/internal/model"
)

// RESPONSES FOR /api/player/*

type HeartbeatResponse struct {
	OK bool `json:"ok"`
}

type CommandResponse struct {
	ID         string              `json:"id"`
	Command    string              `json:"command"`
	Params     model.Params        `json:"params"`
	Status     model.CommandStatus `json:"status"`
	Message    *string             `json:"message,omitempty"`
	CreatedAt  string              `json:"createdAt"`
	ExecutedAt *string             `json:"executedAt,omitempty"`
}

type CommandsResponse struct {
	Commands []CommandResponse `json:"commands"`
}

type AckResponse struct {
	OK      bool            `json:"ok"`
	Command CommandResponse `json:"command"`
}

type PlayLogResponse struct {
	Accepted int `json:"accepted"`
}

func NewCommandResponse(c model.PlayerCommand) CommandResponse {
	out := CommandResponse{
		ID:        c.ID,
		Command:   c.Command,
		Params:    c.Params,
		Status:    c.Status,
		Message:   c.Message,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
	}
	if c.ExecutedAt != nil {
		at := c.ExecutedAt.UTC().Format(time.RFC3339)
		out.ExecutedAt = &at
	}
	return out
}

func NewCommandsResponse(cmds []model.PlayerCommand) CommandsResponse {
	out := CommandsResponse{Commands: make([]CommandResponse, 0, len(cmds))}
	for _, c := range cmds {
		out.Commands = append(out.Commands, NewCommandResponse(c))
	}
	return out
}
