package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Nixie-Tech-LLC/cadence/internal/model"
)

const commandColumns = `id, device_id, command, params, status, message, created_at, executed_at`

func (s *Store) CreateCommand(ctx context.Context, cmd model.PlayerCommand) (model.PlayerCommand, error) {
	var out model.PlayerCommand
	err := s.db.GetContext(ctx, &out, `
		INSERT INTO player_commands (id, device_id, command, params, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+commandColumns,
		cmd.ID, cmd.DeviceID, cmd.Command, cmd.Params, cmd.Status, cmd.CreatedAt)
	return out, classify(err, "command")
}

func (s *Store) GetCommand(ctx context.Context, id string) (model.PlayerCommand, error) {
	var out model.PlayerCommand
	err := s.db.GetContext(ctx, &out, `
		SELECT `+commandColumns+`
		  FROM player_commands
		 WHERE id = $1`, id)
	return out, classify(err, "command")
}

func (s *Store) ListPendingCommands(ctx context.Context, deviceID int) ([]model.PlayerCommand, error) {
	out := []model.PlayerCommand{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT `+commandColumns+`
		  FROM player_commands
		 WHERE device_id = $1
		   AND status = 'pending'
		 ORDER BY created_at, id`, deviceID)
	if err != nil {
		return nil, classify(err, "command")
	}
	return out, nil
}

// CompleteCommand transitions a pending command in a single conditional
// update, so concurrent acknowledgements stamp executed_at once.
func (s *Store) CompleteCommand(ctx context.Context, id string, status model.CommandStatus, message *string, at time.Time) (model.PlayerCommand, bool, error) {
	var out model.PlayerCommand
	err := s.db.GetContext(ctx, &out, `
		UPDATE player_commands
		   SET status = $2,
		       message = $3,
		       executed_at = $4
		 WHERE id = $1
		   AND status = 'pending'
		RETURNING `+commandColumns, id, status, message, at)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PlayerCommand{}, false, nil
	}
	if err != nil {
		return model.PlayerCommand{}, false, classify(err, "command")
	}
	return out, true, nil
}

func (s *Store) ListCommands(ctx context.Context, deviceID, limit int) ([]model.PlayerCommand, error) {
	out := []model.PlayerCommand{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT `+commandColumns+`
		  FROM player_commands
		 WHERE device_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`, deviceID, limit)
	if err != nil {
		return nil, classify(err, "command")
	}
	return out, nil
}
