package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/cadence/internal/apperr"
	"github.com/Nixie-Tech-LLC/cadence/internal/model"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewStore(sqlx.NewDb(mockDB, "postgres")), mock
}

var deviceCols = []string{"id", "code", "name", "group_id", "last_seen", "player_version", "created_at", "updated_at"}

func TestGetDeviceByCode(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT (.+) FROM devices WHERE code = \$1`).
		WithArgs("DEV1").
		WillReturnRows(sqlmock.NewRows(deviceCols).
			AddRow(1, "DEV1", "Lobby", 7, now, "1.2.0", now, now))

	d, err := store.GetDeviceByCode(context.Background(), "DEV1")
	require.NoError(t, err)
	assert.Equal(t, "Lobby", d.Name)
	require.NotNil(t, d.GroupID)
	assert.Equal(t, 7, *d.GroupID)
	require.NotNil(t, d.PlayerVersion)
	assert.Equal(t, "1.2.0", *d.PlayerVersion)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDeviceByCode_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM devices`).
		WithArgs("NOPE").
		WillReturnRows(sqlmock.NewRows(deviceCols))

	_, err := store.GetDeviceByCode(context.Background(), "NOPE")
	assert.True(t, apperr.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDevice_Duplicate(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO devices`).
		WithArgs("DEV1", "Lobby", nil).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := store.CreateDevice(context.Background(), "DEV1", "Lobby", nil)
	assert.True(t, apperr.IsBadRequest(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetDeviceGroup_UnknownGroup(t *testing.T) {
	store, mock := newMockStore(t)
	gid := 99

	mock.ExpectQuery(`UPDATE devices`).
		WithArgs("DEV1", gid).
		WillReturnError(&pq.Error{Code: "23503"})

	_, err := store.SetDeviceGroup(context.Background(), "DEV1", &gid)
	assert.True(t, apperr.IsNotFound(err))
}

func TestTouchDevice(t *testing.T) {
	store, mock := newMockStore(t)
	at := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE devices SET last_seen`).
		WithArgs("DEV1", at, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE devices SET last_seen`).
		WithArgs("GHOST", at, nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	found, err := store.TouchDevice(context.Background(), "DEV1", nil, at)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = store.TouchDevice(context.Background(), "GHOST", nil, at)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAssignmentsForGroup(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM assignments WHERE group_id = \$1`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "group_id", "playlist_id", "days_of_week", "start_time", "end_time", "priority", "created_at"}).
			AddRow(1, 7, 1, "{1,2,3,4,5}", 480, 1080, 1, now).
			AddRow(2, 7, 2, "{1}", 540, 600, 5, now))

	out, err := store.ListAssignmentsForGroup(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, pq.Int64Array{1, 2, 3, 4, 5}, out[0].DaysOfWeek)
	assert.Equal(t, 5, out[1].Priority)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAssignment_Missing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM assignments`).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.DeleteAssignment(context.Background(), 42)
	assert.True(t, apperr.IsNotFound(err))
}

func TestGetPlaylistItems_JoinsMedia(t *testing.T) {
	store, mock := newMockStore(t)
	dur := 12.5

	mock.ExpectQuery(`FROM playlist_items pi JOIN media m`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "playlist_id", "media_id", "position", "display_fit", "image_duration",
			"media_type", "media_title", "filename", "mime", "size_bytes", "media_duration",
		}).
			AddRow(10, 3, 100, 0, "cover", 5, "image", "Welcome", "welcome.png", "image/png", 2048, nil).
			AddRow(11, 3, 101, 1, "contain", nil, "video", nil, "promo.mp4", "video/mp4", 1 << 20, dur))

	items, err := store.GetPlaylistItems(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.NotNil(t, items[0].Media)
	assert.Equal(t, model.MediaImage, items[0].Media.Type)
	assert.Equal(t, "welcome.png", items[0].Media.Filename)
	require.NotNil(t, items[0].ImageDuration)
	assert.Equal(t, 5, *items[0].ImageDuration)

	require.NotNil(t, items[1].Media.Duration)
	assert.Equal(t, dur, *items[1].Media.Duration)
	assert.Equal(t, model.FitContain, items[1].DisplayFit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var commandCols = []string{"id", "device_id", "command", "params", "status", "message", "created_at", "executed_at"}

func TestCompleteCommand(t *testing.T) {
	store, mock := newMockStore(t)
	at := time.Date(2024, 1, 1, 9, 5, 0, 0, time.UTC)
	id := "7b0f6c52-4a4e-4f7e-9a55-0c2d8b1c9e11"

	mock.ExpectQuery(`UPDATE player_commands (.+) AND status = 'pending'`).
		WithArgs(id, model.CommandExecuted, nil, at).
		WillReturnRows(sqlmock.NewRows(commandCols).
			AddRow(id, 1, "reload", []byte(`{"hard":true}`), "executed", nil, at.Add(-time.Minute), at))

	cmd, changed, err := store.CompleteCommand(context.Background(), id, model.CommandExecuted, nil, at)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, model.CommandExecuted, cmd.Status)
	assert.JSONEq(t, `{"hard":true}`, string(cmd.Params))
	require.NotNil(t, cmd.ExecutedAt)
	assert.True(t, at.Equal(*cmd.ExecutedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteCommand_AlreadyTerminal(t *testing.T) {
	store, mock := newMockStore(t)
	at := time.Now()

	mock.ExpectQuery(`UPDATE player_commands`).
		WillReturnRows(sqlmock.NewRows(commandCols))

	_, changed, err := store.CompleteCommand(context.Background(), "x", model.CommandFailed, nil, at)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestListPendingCommands_NullParams(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`FROM player_commands WHERE device_id = \$1 AND status = 'pending'`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(commandCols).
			AddRow("a", 1, "reboot", nil, "pending", nil, now, nil))

	out, err := store.ListPendingCommands(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].Params)
	assert.Nil(t, out[0].ExecutedAt)
}

func TestInsertPlayLogs(t *testing.T) {
	store, mock := newMockStore(t)
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO play_logs`).
		WithArgs(1, 100, start, nil, "completed", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO play_logs`).
		WithArgs(1, 101, start.Add(8*time.Second), nil, "skipped", nil).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	n, err := store.InsertPlayLogs(context.Background(), 1, []model.PlayLog{
		{MediaID: 100, StartedAt: start, Status: "completed"},
		{MediaID: 101, StartedAt: start.Add(8 * time.Second), Status: "skipped"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertPlayLogs_RollsBackOnFailure(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO play_logs`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := store.InsertPlayLogs(context.Background(), 1, []model.PlayLog{{MediaID: 1, Status: "completed"}})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_AppliesUpFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0002_more.up.sql"), []byte("SELECT 2"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0001_init.up.sql"), []byte("SELECT 1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0001_init.down.sql"), []byte("SELECT 0"), 0o644))

	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectExec("SELECT 1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("SELECT 2").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, RunMigrations(sqlx.NewDb(mockDB, "postgres"), dir))
	assert.NoError(t, mock.ExpectationsWereMet())
}
