package endpoints

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/cadence/internal/http/api"
	"github.com/Nixie-Tech-LLC/cadence/internal/http/api/admin/packets"
	"github.com/Nixie-Tech-LLC/cadence/internal/model"
	"github.com/Nixie-Tech-LLC/cadence/internal/schedule"
)

func intParam(c *gin.Context, name string) (int, *api.Error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, api.BadRequest(fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

// POST /api/admin/groups
func (a *AdminController) createGroup(c *gin.Context) (any, *api.Error) {
	var req packets.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	g, err := a.store.CreateGroup(c.Request.Context(), req.Name)
	if err != nil {
		return nil, api.FromError(err)
	}
	return g, nil
}

// GET /api/admin/groups/:id/assignments
func (a *AdminController) listAssignments(c *gin.Context) (any, *api.Error) {
	groupID, apiErr := intParam(c, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	ctx := c.Request.Context()
	if _, err := a.store.GetGroup(ctx, groupID); err != nil {
		return nil, api.FromError(err)
	}

	out, err := a.store.ListAssignmentsForGroup(ctx, groupID)
	if err != nil {
		return nil, api.FromError(err)
	}
	if out == nil {
		out = []model.Assignment{}
	}
	return out, nil
}

// POST /api/admin/groups/:id/assignments
func (a *AdminController) createAssignment(c *gin.Context) (any, *api.Error) {
	groupID, apiErr := intParam(c, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var req packets.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	start, end := *req.StartTime, *req.EndTime
	if start < 0 || end > schedule.MinutesPerDay || start >= end {
		return nil, api.BadRequest("startTime must be before endTime, both within 0-1440")
	}

	days := make(pq.Int64Array, 0, len(req.DaysOfWeek))
	for _, d := range req.DaysOfWeek {
		days = append(days, int64(d))
	}

	created, err := a.store.CreateAssignment(c.Request.Context(), model.Assignment{
		GroupID:    groupID,
		PlaylistID: req.PlaylistID,
		DaysOfWeek: days,
		StartTime:  start,
		EndTime:    end,
		Priority:   req.Priority,
	})
	if err != nil {
		return nil, api.FromError(err)
	}
	log.Info().Int("group_id", groupID).Int("assignment_id", created.ID).Msg("assignment created")
	return created, nil
}

// DELETE /api/admin/assignments/:id
func (a *AdminController) deleteAssignment(c *gin.Context) (any, *api.Error) {
	id, apiErr := intParam(c, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := a.store.DeleteAssignment(c.Request.Context(), id); err != nil {
		return nil, api.FromError(err)
	}
	return gin.H{"deleted": id}, nil
}

// GET /api/admin/devices/:code/schedule?at=RFC3339
func (a *AdminController) previewSchedule(c *gin.Context) (any, *api.Error) {
	at := a.presence.Now()
	if raw := c.Query("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, api.BadRequest("at must be an RFC3339 timestamp")
		}
		// windows are judged on the host's local clock, as for players
		at = parsed.In(time.Local)
	}

	ctx := c.Request.Context()
	device, err := a.store.GetDeviceByCode(ctx, c.Param("code"))
	if err != nil {
		return nil, api.FromError(err)
	}

	result, err := a.resolver.ResolveAt(ctx, &device, at)
	if err != nil {
		return nil, api.FromError(err)
	}
	return packets.SchedulePreviewResponse{
		Device: device.Code,
		At:     at.Format(time.RFC3339),
		Result: result,
	}, nil
}
