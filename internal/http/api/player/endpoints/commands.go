package endpoints

import (
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/cadence/internal/http/api"
	"github.com/Nixie-Tech-LLC/cadence/internal/http/api/player/packets"
)

// GET /api/player/commands?device=CODE
func (p *PlayerController) pendingCommands(c *gin.Context) (any, *api.Error) {
	code, apiErr := deviceQuery(c)
	if apiErr != nil {
		return nil, apiErr
	}

	pending, err := p.queue.ListPending(c.Request.Context(), code)
	if err != nil {
		return nil, api.FromError(err)
	}
	return packets.NewCommandsResponse(pending), nil
}

// POST /api/player/commands/:id/ack
func (p *PlayerController) ackCommand(c *gin.Context) (any, *api.Error) {
	var req packets.AckRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, api.BadRequest(err.Error())
		}
	}

	cmd, err := p.queue.Acknowledge(c.Request.Context(), c.Param("id"), req.Status, req.Message)
	if err != nil {
		return nil, api.FromError(err)
	}
	return packets.AckResponse{OK: true, Command: packets.NewCommandResponse(cmd)}, nil
}
