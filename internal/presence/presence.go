// Package presence tracks when players last checked in.
package presence

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/cadence/internal/model"
)

// LivenessThreshold is the maximum age of the last contact for a device to
// count as online.
const LivenessThreshold = 60 * time.Second

// Store persists last-contact data on the device record.
type Store interface {
	TouchDevice(ctx context.Context, code string, version *string, at time.Time) (bool, error)
}

// Cache mirrors recent contacts for fast online listings. It is advisory;
// the device record stays authoritative.
type Cache interface {
	MarkSeen(ctx context.Context, code string, at time.Time, ttl time.Duration) error
	Online(ctx context.Context) ([]string, error)
}

type Tracker struct {
	store Store
	cache Cache
	clock func() time.Time
}

// NewTracker builds a tracker. cache may be nil.
func NewTracker(store Store, cache Cache, clock func() time.Time) *Tracker {
	if clock == nil {
		clock = time.Now
	}
	return &Tracker{store: store, cache: cache, clock: clock}
}

// RecordContact stamps the device's last contact with the current time and
// stores the reported version verbatim. An unknown device is not an error;
// found reports whether a record was updated.
func (t *Tracker) RecordContact(ctx context.Context, code string, version *string) (found bool, err error) {
	now := t.clock()
	found, err = t.store.TouchDevice(ctx, code, version, now)
	if err != nil {
		return false, fmt.Errorf("recording contact for %q: %w", code, err)
	}
	if !found {
		log.Debug().Str("device", code).Msg("heartbeat from unknown device ignored")
		return false, nil
	}
	if t.cache != nil {
		if err := t.cache.MarkSeen(ctx, code, now, LivenessThreshold); err != nil {
			log.Warn().Err(err).Str("device", code).Msg("failed to update presence cache")
		}
	}
	return true, nil
}

// Online lists device codes seen within the liveness threshold, according to
// the cache. Without a cache it returns nil.
func (t *Tracker) Online(ctx context.Context) ([]string, error) {
	if t.cache == nil {
		return nil, nil
	}
	return t.cache.Online(ctx)
}

// Now returns the tracker's current time.
func (t *Tracker) Now() time.Time { return t.clock() }

// IsOnline reports whether now - lastSeen < LivenessThreshold. A device that
// never made contact is offline; at exactly the threshold it is offline.
func IsOnline(d model.Device, now time.Time) bool {
	if d.LastSeen == nil {
		return false
	}
	return now.Sub(*d.LastSeen) < LivenessThreshold
}
