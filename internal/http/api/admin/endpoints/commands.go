package endpoints

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/cadence/internal/commands"
	"github.com/Nixie-Tech-LLC/cadence/internal/http/api"
	"github.com/Nixie-Tech-LLC/cadence/internal/http/api/admin/packets"
	"github.com/Nixie-Tech-LLC/cadence/internal/http/middleware"
)

// POST /api/admin/devices/:code/commands
func (a *AdminController) enqueueCommand(c *gin.Context) (any, *api.Error) {
	var req packets.EnqueueCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, api.BadRequest(err.Error())
	}

	cmd, err := a.queue.Enqueue(c.Request.Context(), c.Param("code"), req.Command, req.Params)
	if err != nil {
		return nil, api.FromError(err)
	}

	operator, _ := middleware.OperatorID(c)
	log.Info().
		Int("operator_id", operator).
		Str("device", c.Param("code")).
		Str("command_id", cmd.ID).
		Str("command", cmd.Command).
		Msg("operator enqueued command")
	return cmd, nil
}

// GET /api/admin/devices/:code/commands?limit=N
func (a *AdminController) commandHistory(c *gin.Context) (any, *api.Error) {
	limit := commands.DefaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, api.BadRequest("limit must be a positive integer")
		}
		limit = n
	}

	history, err := a.queue.History(c.Request.Context(), c.Param("code"), limit)
	if err != nil {
		return nil, api.FromError(err)
	}
	return packets.CommandsResponse{Commands: history}, nil
}
