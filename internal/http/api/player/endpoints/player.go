// Package endpoints serves the unauthenticated player surface. The device
// code carried in each request identifies the caller.
package endpoints

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/cadence/internal/apperr"
	"github.com/Nixie-Tech-LLC/cadence/internal/commands"
	"github.com/Nixie-Tech-LLC/cadence/internal/http/api"
	"github.com/Nixie-Tech-LLC/cadence/internal/http/api/player/packets"
	"github.com/Nixie-Tech-LLC/cadence/internal/media"
	"github.com/Nixie-Tech-LLC/cadence/internal/model"
	"github.com/Nixie-Tech-LLC/cadence/internal/presence"
	"github.com/Nixie-Tech-LLC/cadence/internal/schedule"
)

// Store is what the player endpoints read and write directly.
type Store interface {
	GetDeviceByCode(ctx context.Context, code string) (model.Device, error)
	InsertPlayLogs(ctx context.Context, deviceID int, entries []model.PlayLog) (int, error)
}

type Deps struct {
	Store    Store
	Presence *presence.Tracker
	Resolver *schedule.Resolver
	Queue    *commands.Queue
	Streamer *media.Streamer
}

type PlayerController struct {
	store    Store
	presence *presence.Tracker
	resolver *schedule.Resolver
	queue    *commands.Queue
	streamer *media.Streamer
}

func newPlayerController(d Deps) *PlayerController {
	return &PlayerController{
		store:    d.Store,
		presence: d.Presence,
		resolver: d.Resolver,
		queue:    d.Queue,
		streamer: d.Streamer,
	}
}

// PlayerModule mounts all /api/player endpoints.
func PlayerModule(d Deps) api.Module {
	ctl := newPlayerController(d)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/heartbeat", ctl.heartbeat)
		c.Raw(http.MethodGet, "/playlist", ctl.playlist)

		c.GET("/commands", ctl.pendingCommands)
		c.POST("/commands/:id/ack", ctl.ackCommand)

		c.Raw(http.MethodGet, "/media/:name", ctl.serveMedia)
		c.Raw(http.MethodHead, "/media/:name", ctl.serveMedia)

		c.POST("/logs", ctl.ingestLogs)
	})
}

// lookupDevice returns nil for an unknown code; the player surface treats
// that as an empty result rather than an error.
func (p *PlayerController) lookupDevice(ctx context.Context, code string) (*model.Device, error) {
	d, err := p.store.GetDeviceByCode(ctx, code)
	if apperr.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func deviceQuery(c *gin.Context) (string, *api.Error) {
	code := strings.TrimSpace(c.Query("device"))
	if code == "" {
		return "", api.BadRequest("device is required")
	}
	return code, nil
}

// POST /api/player/heartbeat
func (p *PlayerController) heartbeat(c *gin.Context) (any, *api.Error) {
	var req packets.HeartbeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	code := strings.TrimSpace(req.Device)
	if code == "" {
		return nil, api.BadRequest("device is required")
	}

	if _, err := p.presence.RecordContact(c.Request.Context(), code, req.Version); err != nil {
		return nil, api.FromError(err)
	}
	return packets.HeartbeatResponse{OK: true}, nil
}
