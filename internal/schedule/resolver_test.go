package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/cadence/internal/model"
)

type fakeSource struct {
	assignments map[int][]model.Assignment
	items       map[int][]model.PlaylistItem
	err         error
}

func (f *fakeSource) ListAssignmentsForGroup(_ context.Context, groupID int) ([]model.Assignment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.assignments[groupID], nil
}

func (f *fakeSource) GetPlaylistItems(_ context.Context, playlistID int) ([]model.PlaylistItem, error) {
	return f.items[playlistID], nil
}

func intPtr(v int) *int { return &v }

func image(id int, name string) *model.Media {
	return &model.Media{ID: id, Type: model.MediaImage, Filename: name}
}

// Group 7: A = P1 weekdays 08:00-18:00 priority 1, B = P2 Monday 09:00-10:00 priority 5.
func scenarioSource() *fakeSource {
	return &fakeSource{
		assignments: map[int][]model.Assignment{
			7: {
				{ID: 1, GroupID: 7, PlaylistID: 1, DaysOfWeek: pq.Int64Array{1, 2, 3, 4, 5}, StartTime: 8 * 60, EndTime: 18 * 60, Priority: 1},
				{ID: 2, GroupID: 7, PlaylistID: 2, DaysOfWeek: pq.Int64Array{1}, StartTime: 9 * 60, EndTime: 10 * 60, Priority: 5},
			},
		},
		items: map[int][]model.PlaylistItem{
			1: {{ID: 10, PlaylistID: 1, Position: 1, DisplayFit: model.FitCover, Media: image(100, "p1.png")}},
			2: {{ID: 20, PlaylistID: 2, Position: 1, DisplayFit: model.FitCover, Media: image(200, "p2.png")}},
		},
	}
}

func TestResolveScenario(t *testing.T) {
	r := NewResolver(scenarioSource(), nil, "/api/player/media")
	dev := &model.Device{Code: "DEV1", GroupID: intPtr(7)}

	res, err := r.ResolveAt(context.Background(), dev, monday(9, 30))
	require.NoError(t, err)
	require.NotNil(t, res.PlaylistID)
	assert.Equal(t, 2, *res.PlaylistID)

	res, err = r.ResolveAt(context.Background(), dev, monday(11, 0))
	require.NoError(t, err)
	require.NotNil(t, res.PlaylistID)
	assert.Equal(t, 1, *res.PlaylistID)

	res, err = r.ResolveAt(context.Background(), dev, monday(9, 30).AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Nil(t, res.PlaylistID)
	assert.True(t, res.Empty())
	assert.NotNil(t, res.Items)
	require.NotNil(t, res.GroupID)
	assert.Equal(t, 7, *res.GroupID)
}

func TestResolveUsesInjectedClock(t *testing.T) {
	clock := func() time.Time { return monday(9, 15) }
	r := NewResolver(scenarioSource(), clock, "/media")

	res, err := r.Resolve(context.Background(), &model.Device{GroupID: intPtr(7)})
	require.NoError(t, err)
	require.NotNil(t, res.PlaylistID)
	assert.Equal(t, 2, *res.PlaylistID)
}

func TestResolveWithoutGroupIsEmpty(t *testing.T) {
	r := NewResolver(&fakeSource{err: errors.New("must not be called")}, nil, "/media")

	res, err := r.ResolveAt(context.Background(), &model.Device{Code: "X"}, monday(9, 0))
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.Nil(t, res.GroupID)

	res, err = r.ResolveAt(context.Background(), nil, monday(9, 0))
	require.NoError(t, err)
	assert.True(t, res.Empty())
}

func TestResolvePropagatesStoreError(t *testing.T) {
	boom := errors.New("db down")
	r := NewResolver(&fakeSource{err: boom}, nil, "/media")

	_, err := r.ResolveAt(context.Background(), &model.Device{GroupID: intPtr(1)}, monday(9, 0))
	assert.ErrorIs(t, err, boom)
}

func TestSelectHigherPriorityRegardlessOfOrder(t *testing.T) {
	low := model.Assignment{ID: 1, Priority: 1}
	high := model.Assignment{ID: 9, Priority: 3}

	got, ok := Select([]model.Assignment{low, high})
	require.True(t, ok)
	assert.Equal(t, 9, got.ID)

	got, _ = Select([]model.Assignment{high, low})
	assert.Equal(t, 9, got.ID)
}

func TestSelectTieBreaksOnLowestID(t *testing.T) {
	a := model.Assignment{ID: 4, Priority: 2}
	b := model.Assignment{ID: 3, Priority: 2}
	c := model.Assignment{ID: 8, Priority: 2}

	got, _ := Select([]model.Assignment{a, b, c})
	assert.Equal(t, 3, got.ID)
	got, _ = Select([]model.Assignment{c, a, b})
	assert.Equal(t, 3, got.ID)

	_, ok := Select(nil)
	assert.False(t, ok)
}

func TestProjectOrdersAndDerivesDurations(t *testing.T) {
	videoLen := 42.5
	title := "Promo"
	src := &fakeSource{
		assignments: map[int][]model.Assignment{
			1: {{ID: 1, PlaylistID: 5, DaysOfWeek: pq.Int64Array{1}, StartTime: 0, EndTime: MinutesPerDay}},
		},
		items: map[int][]model.PlaylistItem{
			5: {
				{ID: 3, Position: 3, DisplayFit: model.FitStretch, Media: &model.Media{Type: model.MediaVideo, Filename: "clip.mp4", Duration: &videoLen, Title: &title}},
				{ID: 1, Position: 1, ImageDuration: intPtr(15), Media: image(1, "a b.png")},
				{ID: 2, Position: 2, DisplayFit: model.FitContain, Media: image(2, "b.jpg")},
				{ID: 4, Position: 4, Media: &model.Media{Type: model.MediaVideo, Filename: "live.mp4"}},
			},
		},
	}
	r := NewResolver(src, nil, "/api/player/media/")

	res, err := r.ResolveAt(context.Background(), &model.Device{GroupID: intPtr(1)}, monday(12, 0))
	require.NoError(t, err)
	require.Len(t, res.Items, 4)

	assert.Equal(t, []int{1, 2, 3, 4}, []int{res.Items[0].ID, res.Items[1].ID, res.Items[2].ID, res.Items[3].ID})

	assert.Equal(t, "/api/player/media/a%20b.png", res.Items[0].URL)
	assert.Equal(t, 15.0, *res.Items[0].Duration)
	assert.Equal(t, model.FitContain, res.Items[0].DisplayFit)

	assert.Equal(t, float64(DefaultImageDuration), *res.Items[1].Duration)

	assert.Equal(t, model.MediaVideo, res.Items[2].Type)
	assert.Equal(t, 42.5, *res.Items[2].Duration)
	assert.Equal(t, "Promo", *res.Items[2].Title)
	assert.Equal(t, model.FitStretch, res.Items[2].DisplayFit)

	assert.Nil(t, res.Items[3].Duration)
}
