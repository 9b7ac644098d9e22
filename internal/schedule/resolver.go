// Package schedule turns a device's group assignments into the playlist that
// should be on screen at a given instant.
package schedule

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/cadence/internal/model"
)

// DefaultImageDuration applies to image items without an explicit override.
const DefaultImageDuration = 8

// Source supplies the stored schedule data the resolver reads.
type Source interface {
	ListAssignmentsForGroup(ctx context.Context, groupID int) ([]model.Assignment, error)
	GetPlaylistItems(ctx context.Context, playlistID int) ([]model.PlaylistItem, error)
}

// Clock returns the current instant.
type Clock func() time.Time

// Item is one entry of a resolved playlist as delivered to players.
type Item struct {
	ID         int              `json:"id"`
	Type       model.MediaType  `json:"type"`
	URL        string           `json:"url"`
	DisplayFit model.DisplayFit `json:"displayFit"`
	Duration   *float64         `json:"duration,omitempty"`
	Title      *string          `json:"title,omitempty"`
}

// Result is the resolved payload. An empty Items slice means "no content".
type Result struct {
	GroupID    *int   `json:"groupId"`
	PlaylistID *int   `json:"playlistId"`
	Items      []Item `json:"items"`
}

// Empty reports whether the result carries no content.
func (r Result) Empty() bool { return len(r.Items) == 0 }

type Resolver struct {
	source    Source
	clock     Clock
	urlPrefix string
}

// NewResolver builds a resolver. mediaURLPrefix is prepended to each item's
// escaped filename, e.g. "/api/player/media".
func NewResolver(source Source, clock Clock, mediaURLPrefix string) *Resolver {
	if clock == nil {
		clock = time.Now
	}
	return &Resolver{
		source:    source,
		clock:     clock,
		urlPrefix: strings.TrimSuffix(mediaURLPrefix, "/"),
	}
}

// Resolve returns the active playlist for device at the resolver's current time.
func (r *Resolver) Resolve(ctx context.Context, device *model.Device) (Result, error) {
	return r.ResolveAt(ctx, device, r.clock())
}

// ResolveAt returns the active playlist for device at instant now. A nil
// device, a device without a group, or no matching assignment all yield an
// empty Result and a nil error.
func (r *Resolver) ResolveAt(ctx context.Context, device *model.Device, now time.Time) (Result, error) {
	out := Result{Items: []Item{}}
	if device == nil || device.GroupID == nil {
		return out, nil
	}
	groupID := *device.GroupID
	out.GroupID = &groupID

	assignments, err := r.source.ListAssignmentsForGroup(ctx, groupID)
	if err != nil {
		return Result{}, fmt.Errorf("listing assignments for group %d: %w", groupID, err)
	}

	chosen, ok := Select(Candidates(assignments, now))
	if !ok {
		return out, nil
	}
	playlistID := chosen.PlaylistID
	out.PlaylistID = &playlistID

	items, err := r.source.GetPlaylistItems(ctx, playlistID)
	if err != nil {
		return Result{}, fmt.Errorf("loading items for playlist %d: %w", playlistID, err)
	}
	out.Items = r.project(items)

	log.Debug().
		Str("device", device.Code).
		Int("group_id", groupID).
		Int("assignment_id", chosen.ID).
		Int("playlist_id", playlistID).
		Int("items", len(out.Items)).
		Msg("resolved playlist")
	return out, nil
}

// Candidates returns the assignments whose window contains now.
func Candidates(assignments []model.Assignment, now time.Time) []model.Assignment {
	var out []model.Assignment
	for _, a := range assignments {
		if InWindow(a, now) {
			out = append(out, a)
		}
	}
	return out
}

// Select picks the candidate with the highest priority. Equal priorities are
// broken by the lowest assignment ID so the result does not depend on input
// order.
func Select(candidates []model.Assignment) (model.Assignment, bool) {
	if len(candidates) == 0 {
		return model.Assignment{}, false
	}
	best := candidates[0]
	for _, a := range candidates[1:] {
		if a.Priority > best.Priority || (a.Priority == best.Priority && a.ID < best.ID) {
			best = a
		}
	}
	return best, true
}

func (r *Resolver) project(items []model.PlaylistItem) []Item {
	sorted := make([]model.PlaylistItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Position != sorted[j].Position {
			return sorted[i].Position < sorted[j].Position
		}
		return sorted[i].ID < sorted[j].ID
	})

	out := make([]Item, 0, len(sorted))
	for _, it := range sorted {
		if it.Media == nil {
			log.Warn().Int("item_id", it.ID).Int("media_id", it.MediaID).Msg("playlist item without media, skipping")
			continue
		}
		out = append(out, Item{
			ID:         it.ID,
			Type:       it.Media.Type,
			URL:        r.urlPrefix + "/" + url.PathEscape(it.Media.Filename),
			DisplayFit: fitOrDefault(it.DisplayFit),
			Duration:   effectiveDuration(it),
			Title:      it.Media.Title,
		})
	}
	return out
}

func effectiveDuration(it model.PlaylistItem) *float64 {
	switch it.Media.Type {
	case model.MediaImage:
		d := float64(DefaultImageDuration)
		if it.ImageDuration != nil && *it.ImageDuration > 0 {
			d = float64(*it.ImageDuration)
		}
		return &d
	case model.MediaVideo:
		if it.Media.Duration != nil {
			d := *it.Media.Duration
			return &d
		}
	}
	return nil
}

func fitOrDefault(f model.DisplayFit) model.DisplayFit {
	switch f {
	case model.FitContain, model.FitCover, model.FitStretch:
		return f
	default:
		return model.FitContain
	}
}
