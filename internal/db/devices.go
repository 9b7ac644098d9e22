package db

import (
	"context"
	"time"

	"github.com/Nixie-Tech-LLC/cadence/internal/apperr"
	"github.com/Nixie-Tech-LLC/cadence/internal/model"
)

const deviceColumns = `id, code, name, group_id, last_seen, player_version, created_at, updated_at`

func (s *Store) GetDeviceByCode(ctx context.Context, code string) (model.Device, error) {
	var d model.Device
	err := s.db.GetContext(ctx, &d, `
		SELECT `+deviceColumns+`
		  FROM devices
		 WHERE code = $1`, code)
	return d, classify(err, "device")
}

func (s *Store) ListDevices(ctx context.Context) ([]model.Device, error) {
	devices := []model.Device{}
	err := s.db.SelectContext(ctx, &devices, `
		SELECT `+deviceColumns+`
		  FROM devices
		 ORDER BY code`)
	if err != nil {
		return nil, classify(err, "device")
	}
	return devices, nil
}

func (s *Store) CreateDevice(ctx context.Context, code, name string, groupID *int) (model.Device, error) {
	var d model.Device
	err := s.db.GetContext(ctx, &d, `
		INSERT INTO devices (code, name, group_id, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		RETURNING `+deviceColumns, code, name, groupID)
	return d, classify(err, "device")
}

func (s *Store) SetDeviceGroup(ctx context.Context, code string, groupID *int) (model.Device, error) {
	var d model.Device
	err := s.db.GetContext(ctx, &d, `
		UPDATE devices
		   SET group_id = $2,
		       updated_at = now()
		 WHERE code = $1
		RETURNING `+deviceColumns, code, groupID)
	return d, classify(err, "device")
}

// TouchDevice sets last_seen and, when version is non-nil, player_version.
// It reports whether a device with that code exists.
func (s *Store) TouchDevice(ctx context.Context, code string, version *string, at time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE devices
		   SET last_seen = $2,
		       player_version = COALESCE($3, player_version)
		 WHERE code = $1`, code, at, version)
	if err != nil {
		return false, classify(err, "device")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperr.Internal("device touch rows affected", err)
	}
	return n > 0, nil
}
