package endpoints

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/cadence/internal/http/api"
	"github.com/Nixie-Tech-LLC/cadence/internal/http/api/player/packets"
	"github.com/Nixie-Tech-LLC/cadence/internal/model"
)

// POST /api/player/logs
func (p *PlayerController) ingestLogs(c *gin.Context) (any, *api.Error) {
	var req packets.PlayLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	code := strings.TrimSpace(req.Device)

	ctx := c.Request.Context()
	device, err := p.lookupDevice(ctx, code)
	if err != nil {
		return nil, api.FromError(err)
	}
	if device == nil {
		log.Debug().Str("device", code).Int("entries", len(req.Entries)).Msg("dropping play logs for unknown device")
		return packets.PlayLogResponse{Accepted: 0}, nil
	}

	entries := make([]model.PlayLog, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, model.PlayLog{
			MediaID:   e.MediaID,
			StartedAt: e.StartedAt,
			EndedAt:   e.EndedAt,
			Status:    strings.TrimSpace(e.Status),
			Notes:     e.Notes,
		})
	}

	n, err := p.store.InsertPlayLogs(ctx, device.ID, entries)
	if err != nil {
		return nil, api.FromError(err)
	}
	return packets.PlayLogResponse{Accepted: n}, nil
}
