package db

import (
	"context"

	"github.com/Nixie-Tech-LLC/cadence/internal/apperr"
	"github.com/Nixie-Tech-LLC/cadence/internal/model"
)

const assignmentColumns = `id, group_id, playlist_id, days_of_week, start_time, end_time, priority, created_at`

func (s *Store) CreateGroup(ctx context.Context, name string) (model.DeviceGroup, error) {
	var g model.DeviceGroup
	err := s.db.GetContext(ctx, &g, `
		INSERT INTO device_groups (name, created_at)
		VALUES ($1, now())
		RETURNING id, name, created_at`, name)
	return g, classify(err, "group")
}

func (s *Store) GetGroup(ctx context.Context, id int) (model.DeviceGroup, error) {
	var g model.DeviceGroup
	err := s.db.GetContext(ctx, &g, `
		SELECT id, name, created_at
		  FROM device_groups
		 WHERE id = $1`, id)
	return g, classify(err, "group")
}

func (s *Store) ListAssignmentsForGroup(ctx context.Context, groupID int) ([]model.Assignment, error) {
	out := []model.Assignment{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT `+assignmentColumns+`
		  FROM assignments
		 WHERE group_id = $1
		 ORDER BY id`, groupID)
	if err != nil {
		return nil, classify(err, "assignment")
	}
	return out, nil
}

func (s *Store) CreateAssignment(ctx context.Context, a model.Assignment) (model.Assignment, error) {
	var out model.Assignment
	err := s.db.GetContext(ctx, &out, `
		INSERT INTO assignments (group_id, playlist_id, days_of_week, start_time, end_time, priority, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING `+assignmentColumns,
		a.GroupID, a.PlaylistID, a.DaysOfWeek, a.StartTime, a.EndTime, a.Priority)
	return out, classify(err, "assignment")
}

func (s *Store) DeleteAssignment(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return classify(err, "assignment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("assignment not found")
	}
	return nil
}
