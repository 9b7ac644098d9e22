// Package db is the PostgreSQL-backed store for devices, schedules, commands
// and play logs.
package db

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/cadence/internal/apperr"
	"github.com/Nixie-Tech-LLC/cadence/internal/commands"
	"github.com/Nixie-Tech-LLC/cadence/internal/presence"
	"github.com/Nixie-Tech-LLC/cadence/internal/schedule"
)

type Store struct {
	db *sqlx.DB
}

// compile-time checks against the consumers' interfaces
var (
	_ schedule.Source = (*Store)(nil)
	_ presence.Store  = (*Store)(nil)
	_ commands.Store  = (*Store)(nil)
)

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// classify maps driver errors onto apperr kinds. what names the record for
// the client-facing message.
func classify(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(what + " not found")
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return apperr.BadRequest(what + " already exists")
		case "23503":
			return apperr.NotFound("referenced record not found")
		case "22P02":
			return apperr.BadRequest("invalid " + what + " identifier")
		}
	}
	log.Error().Err(err).Str("record", what).Msg("store query failed")
	return apperr.Internal(what+" query failed", err)
}
