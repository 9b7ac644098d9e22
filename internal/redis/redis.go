// Package redis keeps an advisory presence index in Redis so operators can
// list live players without scanning the devices table.
package redis

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const presencePrefix = "presence:"

// client is the subset of *redis.Client used here.
type client interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

type PresenceCache struct {
	rdb client
}

// NewPresenceCache connects to Redis and verifies the connection.
func NewPresenceCache(ctx context.Context, address, username, password string) (*PresenceCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     address,
		Username: username,
		Password: password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", address, err)
	}
	log.Info().Str("address", address).Msg("connected to redis")
	return &PresenceCache{rdb: rdb}, nil
}

func newPresenceCache(c client) *PresenceCache {
	return &PresenceCache{rdb: c}
}

// MarkSeen records a contact. The key expires after ttl, so only devices
// heard from recently remain in the index.
func (p *PresenceCache) MarkSeen(ctx context.Context, code string, at time.Time, ttl time.Duration) error {
	key := presencePrefix + code
	if err := p.rdb.Set(ctx, key, strconv.FormatInt(at.Unix(), 10), ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Online lists device codes with a live presence key, sorted.
func (p *PresenceCache) Online(ctx context.Context) ([]string, error) {
	codes := []string{}
	seen := map[string]struct{}{}
	var cursor uint64
	for {
		keys, next, err := p.rdb.Scan(ctx, cursor, presencePrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan presence keys: %w", err)
		}
		// SCAN may return a key more than once
		for _, k := range keys {
			code := strings.TrimPrefix(k, presencePrefix)
			if _, dup := seen[code]; dup {
				continue
			}
			seen[code] = struct{}{}
			codes = append(codes, code)
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	sort.Strings(codes)
	return codes, nil
}

func (p *PresenceCache) Close() error {
	return p.rdb.Close()
}
