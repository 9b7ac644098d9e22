// Package commands is the per-device mailbox of remote-control commands.
//
// A command starts pending and moves exactly once to executed or failed when
// the player acknowledges it. Polling never mutates state.
package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/cadence/internal/apperr"
	"github.com/Nixie-Tech-LLC/cadence/internal/model"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

type Store interface {
	GetDeviceByCode(ctx context.Context, code string) (model.Device, error)
	CreateCommand(ctx context.Context, cmd model.PlayerCommand) (model.PlayerCommand, error)
	GetCommand(ctx context.Context, id string) (model.PlayerCommand, error)
	ListPendingCommands(ctx context.Context, deviceID int) ([]model.PlayerCommand, error)
	// CompleteCommand moves a pending command to status. changed is false
	// when no pending command with that id exists.
	CompleteCommand(ctx context.Context, id string, status model.CommandStatus, message *string, at time.Time) (cmd model.PlayerCommand, changed bool, err error)
	ListCommands(ctx context.Context, deviceID, limit int) ([]model.PlayerCommand, error)
}

// Notifier tells a player that new commands are waiting. Delivery is best
// effort; the player's poll remains the source of truth.
type Notifier interface {
	CommandsPending(ctx context.Context, deviceCode, commandID string) error
}

type Queue struct {
	store    Store
	notifier Notifier
	clock    func() time.Time
}

// NewQueue builds a queue. notifier may be nil.
func NewQueue(store Store, notifier Notifier, clock func() time.Time) *Queue {
	if clock == nil {
		clock = time.Now
	}
	return &Queue{store: store, notifier: notifier, clock: clock}
}

// Enqueue appends a pending command for the device identified by code.
func (q *Queue) Enqueue(ctx context.Context, code, command string, params model.Params) (model.PlayerCommand, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return model.PlayerCommand{}, apperr.BadRequest("command is required")
	}
	device, err := q.store.GetDeviceByCode(ctx, code)
	if err != nil {
		return model.PlayerCommand{}, err
	}

	// v7 ids sort by creation time, breaking created_at ties in the store.
	id, err := uuid.NewV7()
	if err != nil {
		return model.PlayerCommand{}, apperr.Internal("generating command id", err)
	}

	created, err := q.store.CreateCommand(ctx, model.PlayerCommand{
		ID:        id.String(),
		DeviceID:  device.ID,
		Command:   command,
		Params:    params,
		Status:    model.CommandPending,
		CreatedAt: q.clock(),
	})
	if err != nil {
		return model.PlayerCommand{}, fmt.Errorf("enqueueing %q for %q: %w", command, code, err)
	}

	log.Info().Str("device", code).Str("command_id", created.ID).Str("command", command).Msg("command enqueued")

	if q.notifier != nil {
		if err := q.notifier.CommandsPending(ctx, code, created.ID); err != nil {
			log.Warn().Err(err).Str("device", code).Str("command_id", created.ID).Msg("failed to notify player of pending command")
		}
	}
	return created, nil
}

// ListPending returns the device's pending commands, oldest first. An
// unknown device has no pending commands.
func (q *Queue) ListPending(ctx context.Context, code string) ([]model.PlayerCommand, error) {
	device, err := q.store.GetDeviceByCode(ctx, code)
	if apperr.IsNotFound(err) {
		return []model.PlayerCommand{}, nil
	}
	if err != nil {
		return nil, err
	}
	cmds, err := q.store.ListPendingCommands(ctx, device.ID)
	if err != nil {
		return nil, err
	}
	if cmds == nil {
		cmds = []model.PlayerCommand{}
	}
	return cmds, nil
}

// Acknowledge records the outcome of a command. An empty status means
// executed. Acknowledging a command that already reached a terminal state
// returns it unchanged.
func (q *Queue) Acknowledge(ctx context.Context, id string, status model.CommandStatus, message *string) (model.PlayerCommand, error) {
	if status == "" {
		status = model.CommandExecuted
	}
	if !status.Terminal() {
		return model.PlayerCommand{}, apperr.BadRequest("status must be executed or failed")
	}
	if _, err := uuid.Parse(id); err != nil {
		return model.PlayerCommand{}, apperr.NotFound("command not found")
	}

	cmd, changed, err := q.store.CompleteCommand(ctx, id, status, message, q.clock())
	if err != nil {
		return model.PlayerCommand{}, err
	}
	if changed {
		log.Info().Str("command_id", id).Str("status", string(status)).Msg("command acknowledged")
		return cmd, nil
	}

	existing, err := q.store.GetCommand(ctx, id)
	if err != nil {
		return model.PlayerCommand{}, err
	}
	log.Debug().Str("command_id", id).Str("status", string(existing.Status)).Msg("repeated acknowledgement ignored")
	return existing, nil
}

// History lists the device's commands newest first regardless of status.
func (q *Queue) History(ctx context.Context, code string, limit int) ([]model.PlayerCommand, error) {
	device, err := q.store.GetDeviceByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	cmds, err := q.store.ListCommands(ctx, device.ID, limit)
	if err != nil {
		return nil, err
	}
	if cmds == nil {
		cmds = []model.PlayerCommand{}
	}
	return cmds, nil
}
