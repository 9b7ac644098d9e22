// Package memstore is an in-memory implementation of the store interfaces,
// used by tests and local tooling that runs without PostgreSQL.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Nixie-Tech-LLC/cadence/internal/apperr"
	"github.com/Nixie-Tech-LLC/cadence/internal/model"
)

type Store struct {
	mu          sync.Mutex
	nextID      int
	devices     map[string]*model.Device
	groups      map[int]model.DeviceGroup
	assignments map[int]model.Assignment
	items       map[int][]model.PlaylistItem
	commands    map[string]*model.PlayerCommand
	logs        []model.PlayLog
}

func New() *Store {
	return &Store{
		devices:     map[string]*model.Device{},
		groups:      map[int]model.DeviceGroup{},
		assignments: map[int]model.Assignment{},
		items:       map[int][]model.PlaylistItem{},
		commands:    map[string]*model.PlayerCommand{},
	}
}

func (s *Store) id() int {
	s.nextID++
	return s.nextID
}

// SetPlaylistItems replaces the items of a playlist. Each item must carry its Media.
func (s *Store) SetPlaylistItems(playlistID int, items []model.PlaylistItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[playlistID] = append([]model.PlaylistItem(nil), items...)
}

// PlayLogs returns a copy of all stored play logs.
func (s *Store) PlayLogs() []model.PlayLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.PlayLog(nil), s.logs...)
}

func (s *Store) GetDeviceByCode(_ context.Context, code string) (model.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[code]
	if !ok {
		return model.Device{}, apperr.NotFound("device not found")
	}
	return *d, nil
}

func (s *Store) ListDevices(context.Context) ([]model.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Device, 0, len(s.devices))
	for _, d := range s.devices {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *Store) CreateDevice(_ context.Context, code, name string, groupID *int) (model.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.devices[code]; exists {
		return model.Device{}, apperr.BadRequest("device code already registered")
	}
	if groupID != nil {
		if _, ok := s.groups[*groupID]; !ok {
			return model.Device{}, apperr.NotFound("group not found")
		}
	}
	now := time.Now()
	d := &model.Device{ID: s.id(), Code: code, Name: name, GroupID: groupID, CreatedAt: now, UpdatedAt: now}
	s.devices[code] = d
	return *d, nil
}

func (s *Store) SetDeviceGroup(_ context.Context, code string, groupID *int) (model.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[code]
	if !ok {
		return model.Device{}, apperr.NotFound("device not found")
	}
	if groupID != nil {
		if _, ok := s.groups[*groupID]; !ok {
			return model.Device{}, apperr.NotFound("group not found")
		}
	}
	d.GroupID = groupID
	d.UpdatedAt = time.Now()
	return *d, nil
}

func (s *Store) TouchDevice(_ context.Context, code string, version *string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[code]
	if !ok {
		return false, nil
	}
	seen := at
	d.LastSeen = &seen
	if version != nil {
		v := *version
		d.PlayerVersion = &v
	}
	return true, nil
}

func (s *Store) CreateGroup(_ context.Context, name string) (model.DeviceGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := model.DeviceGroup{ID: s.id(), Name: name, CreatedAt: time.Now()}
	s.groups[g.ID] = g
	return g, nil
}

func (s *Store) GetGroup(_ context.Context, id int) (model.DeviceGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[id]
	if !ok {
		return model.DeviceGroup{}, apperr.NotFound("group not found")
	}
	return g, nil
}

func (s *Store) ListAssignmentsForGroup(_ context.Context, groupID int) ([]model.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Assignment
	for _, a := range s.assignments {
		if a.GroupID == groupID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateAssignment(_ context.Context, a model.Assignment) (model.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[a.GroupID]; !ok {
		return model.Assignment{}, apperr.NotFound("group not found")
	}
	a.ID = s.id()
	a.CreatedAt = time.Now()
	s.assignments[a.ID] = a
	return a, nil
}

func (s *Store) DeleteAssignment(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assignments[id]; !ok {
		return apperr.NotFound("assignment not found")
	}
	delete(s.assignments, id)
	return nil
}

func (s *Store) GetPlaylistItems(_ context.Context, playlistID int) ([]model.PlaylistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.PlaylistItem(nil), s.items[playlistID]...), nil
}

func (s *Store) CreateCommand(_ context.Context, cmd model.PlayerCommand) (model.PlayerCommand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := cmd
	s.commands[c.ID] = &c
	return c, nil
}

func (s *Store) GetCommand(_ context.Context, id string) (model.PlayerCommand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.commands[id]
	if !ok {
		return model.PlayerCommand{}, apperr.NotFound("command not found")
	}
	return *c, nil
}

func (s *Store) ListPendingCommands(_ context.Context, deviceID int) ([]model.PlayerCommand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.PlayerCommand
	for _, c := range s.commands {
		if c.DeviceID == deviceID && c.Status == model.CommandPending {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return commandBefore(out[i], out[j]) })
	return out, nil
}

// commandBefore orders like the SQL store: created_at, then id.
func commandBefore(a, b model.PlayerCommand) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func (s *Store) CompleteCommand(_ context.Context, id string, status model.CommandStatus, message *string, at time.Time) (model.PlayerCommand, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.commands[id]
	if !ok || c.Status != model.CommandPending {
		return model.PlayerCommand{}, false, nil
	}
	executed := at
	c.Status = status
	c.ExecutedAt = &executed
	c.Message = message
	return *c, true, nil
}

func (s *Store) ListCommands(_ context.Context, deviceID, limit int) ([]model.PlayerCommand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.PlayerCommand
	for _, c := range s.commands {
		if c.DeviceID == deviceID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return commandBefore(out[j], out[i]) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) InsertPlayLogs(_ context.Context, deviceID int, entries []model.PlayLog) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		e.ID = s.id()
		e.DeviceID = deviceID
		e.Status = strings.TrimSpace(e.Status)
		s.logs = append(s.logs, e)
	}
	return len(entries), nil
}
