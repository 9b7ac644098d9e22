package main

import (
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/cadence/internal/config"
	"github.com/Nixie-Tech-LLC/cadence/internal/storage"
)

// InitStorage selects and returns the configured media backend
func InitStorage(cfg *config.Config) storage.Backend {
	if cfg.UseSpaces {
		spaces, err := storage.NewSpacesBackend(
			cfg.SpacesEndpoint,
			cfg.SpacesRegion,
			cfg.SpacesBucket,
			cfg.SpacesPrefix,
			cfg.SpacesAccessKey,
			cfg.SpacesSecretKey,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Spaces storage")
		}
		log.Info().Str("bucket", cfg.SpacesBucket).Msg("serving media from DigitalOcean Spaces")
		return spaces
	}

	local, err := storage.NewLocalBackend(cfg.MediaRoot)
	if err != nil {
		log.Fatal().Err(err).Str("root", cfg.MediaRoot).Msg("failed to initialize local storage")
	}
	log.Info().Str("root", local.Root()).Msg("serving media from local disk")
	return local
}
