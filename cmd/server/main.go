package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/cadence/internal/commands"
	"github.com/Nixie-Tech-LLC/cadence/internal/config"
	"github.com/Nixie-Tech-LLC/cadence/internal/db"
	"github.com/Nixie-Tech-LLC/cadence/internal/logging"
	"github.com/Nixie-Tech-LLC/cadence/internal/media"
	"github.com/Nixie-Tech-LLC/cadence/internal/mqtt"
	"github.com/Nixie-Tech-LLC/cadence/internal/presence"
	"github.com/Nixie-Tech-LLC/cadence/internal/redis"
	"github.com/Nixie-Tech-LLC/cadence/internal/schedule"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Setup(cfg.Environment, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db init")
	}
	defer conn.Close()

	if err := db.RunMigrations(conn, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}
	store := db.NewStore(conn)

	var cache presence.Cache
	if cfg.RedisAddress != "" {
		pc, err := redis.NewPresenceCache(ctx, cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			log.Warn().Err(err).Msg("presence cache disabled")
		} else {
			defer pc.Close()
			cache = pc
		}
	}

	var notifier commands.Notifier
	if cfg.MQTTBrokerURL != "" {
		n, err := mqtt.Connect(cfg.MQTTBrokerURL, cfg.MQTTClientID)
		if err != nil {
			log.Warn().Err(err).Msg("command nudges disabled")
		} else {
			defer n.Close()
			notifier = n
		}
	}

	svc := services{
		store:    store,
		presence: presence.NewTracker(store, cache, time.Now),
		resolver: schedule.NewResolver(store, time.Now, cfg.MediaURLPrefix),
		queue:    commands.NewQueue(store, notifier, time.Now),
		streamer: media.NewStreamer(InitStorage(cfg)),
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	RegisterRoutes(r, cfg, svc)

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("address", cfg.ServerAddress).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
