package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/cadence/internal/commands"
	"github.com/Nixie-Tech-LLC/cadence/internal/config"
	"github.com/Nixie-Tech-LLC/cadence/internal/db"
	"github.com/Nixie-Tech-LLC/cadence/internal/http/api"
	adminapi "github.com/Nixie-Tech-LLC/cadence/internal/http/api/admin/endpoints"
	playerapi "github.com/Nixie-Tech-LLC/cadence/internal/http/api/player/endpoints"
	"github.com/Nixie-Tech-LLC/cadence/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/cadence/internal/media"
	"github.com/Nixie-Tech-LLC/cadence/internal/presence"
	"github.com/Nixie-Tech-LLC/cadence/internal/schedule"
)

type services struct {
	store    *db.Store
	presence *presence.Tracker
	resolver *schedule.Resolver
	queue    *commands.Queue
	streamer *media.Streamer
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, cfg *config.Config, svc services) {
	r.Use(middleware.RequestLogger())

	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
			"Range",
			"If-None-Match",
			"X-If-None-Match",
		},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Range",
			"Accept-Ranges",
			"ETag",
		},
		AllowCredentials: false,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/player",
	},
		playerapi.PlayerModule(playerapi.Deps{
			Store:    svc.store,
			Presence: svc.presence,
			Resolver: svc.resolver,
			Queue:    svc.queue,
			Streamer: svc.streamer,
		}),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: cfg.JWTSecret,
	},
		adminapi.AdminModule(adminapi.Deps{
			Store:    svc.store,
			Presence: svc.presence,
			Resolver: svc.resolver,
			Queue:    svc.queue,
		}),
	)
}
