// Package endpoints serves the operator surface under /api/admin.
package endpoints

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/cadence/internal/commands"
	"github.com/Nixie-Tech-LLC/cadence/internal/http/api"
	"github.com/Nixie-Tech-LLC/cadence/internal/http/api/admin/packets"
	"github.com/Nixie-Tech-LLC/cadence/internal/model"
	"github.com/Nixie-Tech-LLC/cadence/internal/presence"
	"github.com/Nixie-Tech-LLC/cadence/internal/schedule"
)

type Store interface {
	ListDevices(ctx context.Context) ([]model.Device, error)
	GetDeviceByCode(ctx context.Context, code string) (model.Device, error)
	CreateDevice(ctx context.Context, code, name string, groupID *int) (model.Device, error)
	SetDeviceGroup(ctx context.Context, code string, groupID *int) (model.Device, error)

	CreateGroup(ctx context.Context, name string) (model.DeviceGroup, error)
	GetGroup(ctx context.Context, id int) (model.DeviceGroup, error)
	ListAssignmentsForGroup(ctx context.Context, groupID int) ([]model.Assignment, error)
	CreateAssignment(ctx context.Context, a model.Assignment) (model.Assignment, error)
	DeleteAssignment(ctx context.Context, id int) error
}

type Deps struct {
	Store    Store
	Presence *presence.Tracker
	Resolver *schedule.Resolver
	Queue    *commands.Queue
}

type AdminController struct {
	store    Store
	presence *presence.Tracker
	resolver *schedule.Resolver
	queue    *commands.Queue
}

func newAdminController(d Deps) *AdminController {
	return &AdminController{store: d.Store, presence: d.Presence, resolver: d.Resolver, queue: d.Queue}
}

// AdminModule mounts all authenticated /api/admin endpoints.
func AdminModule(d Deps) api.Module {
	ctl := newAdminController(d)
	return api.ModuleFunc(func(c *api.Controller) {
		// devices
		c.GET("/devices", ctl.listDevices)
		c.POST("/devices", ctl.createDevice)
		c.GET("/devices/:code", ctl.getDevice)
		c.PUT("/devices/:code/group", ctl.setDeviceGroup)
		c.GET("/devices/:code/schedule", ctl.previewSchedule)

		// commands
		c.POST("/devices/:code/commands", ctl.enqueueCommand)
		c.GET("/devices/:code/commands", ctl.commandHistory)

		// groups & assignments
		c.POST("/groups", ctl.createGroup)
		c.GET("/groups/:id/assignments", ctl.listAssignments)
		c.POST("/groups/:id/assignments", ctl.createAssignment)
		c.DELETE("/assignments/:id", ctl.deleteAssignment)

		c.GET("/presence", ctl.onlineDevices)
	})
}

// GET /api/admin/devices
func (a *AdminController) listDevices(c *gin.Context) (any, *api.Error) {
	all, err := a.store.ListDevices(c.Request.Context())
	if err != nil {
		return nil, api.FromError(err)
	}

	now := a.presence.Now()
	out := make([]packets.DeviceResponse, 0, len(all))
	for _, d := range all {
		out = append(out, packets.NewDeviceResponse(d, now))
	}
	return out, nil
}

// POST /api/admin/devices
func (a *AdminController) createDevice(c *gin.Context) (any, *api.Error) {
	var req packets.CreateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	code := strings.TrimSpace(req.Code)
	name := strings.TrimSpace(req.Name)
	if code == "" || name == "" {
		return nil, api.BadRequest("code and name are required")
	}

	d, err := a.store.CreateDevice(c.Request.Context(), code, name, req.GroupID)
	if err != nil {
		return nil, api.FromError(err)
	}
	return packets.NewDeviceResponse(d, a.presence.Now()), nil
}

// GET /api/admin/devices/:code
func (a *AdminController) getDevice(c *gin.Context) (any, *api.Error) {
	d, err := a.store.GetDeviceByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		return nil, api.FromError(err)
	}
	return packets.NewDeviceResponse(d, a.presence.Now()), nil
}

// PUT /api/admin/devices/:code/group
func (a *AdminController) setDeviceGroup(c *gin.Context) (any, *api.Error) {
	var req packets.SetDeviceGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, api.BadRequest(err.Error())
	}

	d, err := a.store.SetDeviceGroup(c.Request.Context(), c.Param("code"), req.GroupID)
	if err != nil {
		return nil, api.FromError(err)
	}
	return packets.NewDeviceResponse(d, a.presence.Now()), nil
}

// GET /api/admin/presence
func (a *AdminController) onlineDevices(c *gin.Context) (any, *api.Error) {
	ctx := c.Request.Context()
	codes, err := a.presence.Online(ctx)
	if err == nil && codes != nil {
		return packets.PresenceResponse{Online: codes, Source: "cache"}, nil
	}
	if err != nil {
		// fall through to the device records
		_ = c.Error(err)
	}

	all, err := a.store.ListDevices(ctx)
	if err != nil {
		return nil, api.FromError(err)
	}
	now := a.presence.Now()
	online := []string{}
	for _, d := range all {
		if presence.IsOnline(d, now) {
			online = append(online, d.Code)
		}
	}
	return packets.PresenceResponse{Online: online, Source: "store"}, nil
}
