package db

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/cadence/internal/apperr"
	"github.com/Nixie-Tech-LLC/cadence/internal/model"
)

// InsertPlayLogs appends a batch of play logs for one device in a single transaction.
func (s *Store) InsertPlayLogs(ctx context.Context, deviceID int, entries []model.PlayLog) (n int, err error) {
	if len(entries) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, apperr.Internal("begin play log batch", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Msg("play log rollback failed")
			}
		}
	}()

	for _, e := range entries {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO play_logs (device_id, media_id, started_at, ended_at, status, notes)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			deviceID, e.MediaID, e.StartedAt, e.EndedAt, e.Status, e.Notes); err != nil {
			return 0, classify(err, "play log")
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, apperr.Internal("commit play log batch", err)
	}
	return len(entries), nil
}
