package presence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/cadence/internal/model"
)

type touch struct {
	code    string
	version *string
	at      time.Time
}

type fakeStore struct {
	known   map[string]bool
	touches []touch
	err     error
}

func (f *fakeStore) TouchDevice(_ context.Context, code string, version *string, at time.Time) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if !f.known[code] {
		return false, nil
	}
	f.touches = append(f.touches, touch{code, version, at})
	return true, nil
}

type fakeCache struct {
	seen map[string]time.Duration
	err  error
}

func (f *fakeCache) MarkSeen(_ context.Context, code string, _ time.Time, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	if f.seen == nil {
		f.seen = map[string]time.Duration{}
	}
	f.seen[code] = ttl
	return nil
}

func (f *fakeCache) Online(context.Context) ([]string, error) {
	var out []string
	for k := range f.seen {
		out = append(out, k)
	}
	return out, nil
}

var fixed = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

func TestIsOnlineBoundary(t *testing.T) {
	seen := fixed
	d := model.Device{LastSeen: &seen}

	assert.True(t, IsOnline(d, fixed))
	assert.True(t, IsOnline(d, fixed.Add(59*time.Second)))
	assert.True(t, IsOnline(d, fixed.Add(LivenessThreshold-time.Nanosecond)))
	assert.False(t, IsOnline(d, fixed.Add(LivenessThreshold)))
	assert.False(t, IsOnline(d, fixed.Add(2*time.Minute)))
}

func TestIsOnlineWithoutContact(t *testing.T) {
	assert.False(t, IsOnline(model.Device{}, fixed))
}

func TestRecordContactStoresVersionVerbatim(t *testing.T) {
	store := &fakeStore{known: map[string]bool{"DEV1": true}}
	cache := &fakeCache{}
	tr := NewTracker(store, cache, func() time.Time { return fixed })

	v := "  weird build 1.2-rc "
	found, err := tr.RecordContact(context.Background(), "DEV1", &v)
	require.NoError(t, err)
	assert.True(t, found)

	require.Len(t, store.touches, 1)
	assert.Equal(t, fixed, store.touches[0].at)
	assert.Equal(t, v, *store.touches[0].version)
	assert.Equal(t, LivenessThreshold, cache.seen["DEV1"])

	online, err := tr.Online(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"DEV1"}, online)
}

func TestRecordContactUnknownDeviceIsBenign(t *testing.T) {
	store := &fakeStore{known: map[string]bool{}}
	cache := &fakeCache{}
	tr := NewTracker(store, cache, func() time.Time { return fixed })

	found, err := tr.RecordContact(context.Background(), "GHOST", nil)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, cache.seen)
}

func TestRecordContactCacheFailureIsNotFatal(t *testing.T) {
	store := &fakeStore{known: map[string]bool{"DEV1": true}}
	tr := NewTracker(store, &fakeCache{err: errors.New("redis gone")}, func() time.Time { return fixed })

	found, err := tr.RecordContact(context.Background(), "DEV1", nil)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestRecordContactStoreFailure(t *testing.T) {
	boom := errors.New("db down")
	tr := NewTracker(&fakeStore{err: boom}, nil, nil)

	_, err := tr.RecordContact(context.Background(), "DEV1", nil)
	assert.ErrorIs(t, err, boom)

	online, err := tr.Online(context.Background())
	require.NoError(t, err)
	assert.Nil(t, online)
}
