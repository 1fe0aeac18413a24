// Package cache mediates every upstream request through a digest-keyed,
// TTL-expiring response cache persisted in a key/value store.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/whosinhq/whosin/internal/ports"
)

// schemaVersion is mixed into every cache key. Bump it whenever the
// persisted entry shape changes; old entries then simply stop matching and
// age out via the startup purge, with no migration.
const schemaVersion = "v2"

// expiresAtLayout is an ISO-8601 local date-time without timezone, exactly
// as entries are persisted.
const expiresAtLayout = "2006-01-02T15:04:05"

// Request describes one upstream call. Two Requests that differ only in
// casing or query-parameter order are the same logical request and collide
// to the same cache key.
type Request struct {
	Method string
	URL    string
	Query  url.Values
}

// Key is the hex-encoded SHA-256 digest of the normalized request plus the
// schema version tag.
func (r Request) Key() string {
	sum := sha256.Sum256([]byte(r.normalize() + schemaVersion))
	return hex.EncodeToString(sum[:])
}

func (r Request) normalize() string {
	var b strings.Builder
	b.WriteString(strings.ToUpper(r.Method))
	b.WriteByte(' ')
	b.WriteString(strings.TrimSpace(r.URL))

	if len(r.Query) > 0 {
		keys := make([]string, 0, len(r.Query))
		for k := range r.Query {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('?')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte('&')
			}
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(strings.Join(r.Query[k], ","))
		}
	}
	return strings.ToLower(b.String())
}

// FetchFunc performs the actual network call on a cache miss.
type FetchFunc func(ctx context.Context) (json.RawMessage, error)

type entry struct {
	ExpiresAt string          `json:"expiresAt"`
	Data      json.RawMessage `json:"data"`
}

type Cache struct {
	store ports.KeyValueStore
	clock ports.Clock
	log   *slog.Logger
}

func New(store ports.KeyValueStore, clock ports.Clock, log *slog.Logger) *Cache {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &Cache{store: store, clock: clock, log: log}
}

// logger resolves at call time so a default handler installed after wiring
// still applies to a Cache built with a nil logger.
func (c *Cache) logger() *slog.Logger {
	if c.log != nil {
		return c.log
	}
	return slog.Default()
}

// FetchCached returns the cached payload for req when a fresh entry exists,
// and otherwise runs fetch and persists the result for ttl. A quota-exceeded
// write clears the cache namespace and is not an error: the freshly fetched
// payload is still returned. Any other write failure propagates. Failed
// fetches, including domain.ErrReauthRequired, are never cached.
func (c *Cache) FetchCached(ctx context.Context, req Request, ttl time.Duration, fetch FetchFunc) (json.RawMessage, error) {
	key := req.Key()

	if data, ok := c.lookup(ctx, key); ok {
		return data, nil
	}

	data, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	stored := entry{
		ExpiresAt: c.clock.Now().Add(ttl).Format(expiresAtLayout),
		Data:      data,
	}
	encoded, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("encode cache entry: %w", err)
	}

	if err := c.store.Set(ctx, key, string(encoded)); err != nil {
		if !errors.Is(err, ports.ErrQuotaExceeded) {
			return nil, fmt.Errorf("persist cache entry: %w", err)
		}
		c.logger().Warn("cache quota exceeded, clearing cache namespace", "key", key)
		if clearErr := c.store.Clear(ctx); clearErr != nil {
			return nil, fmt.Errorf("clear cache after quota exceeded: %w", clearErr)
		}
	}

	return data, nil
}

func (c *Cache) lookup(ctx context.Context, key string) (json.RawMessage, bool) {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ports.ErrKeyNotFound) {
			c.logger().Debug("cache read failed, treating as miss", "key", key, "err", err)
		}
		return nil, false
	}

	expiresAt, data, err := decodeEntry(raw)
	if err != nil {
		c.logger().Debug("malformed cache entry, treating as miss", "key", key, "err", err)
		return nil, false
	}
	if !c.clock.Now().Before(expiresAt) {
		return nil, false
	}
	return data, true
}

// PurgeExpired scans the whole namespace once and deletes every entry whose
// expiry is at or before now. Malformed entries are skipped, not removed:
// deleting them is the schema bump's job, not the purge's. Returns the
// number of entries removed.
func (c *Cache) PurgeExpired(ctx context.Context) (int, error) {
	keys, err := c.store.Keys(ctx)
	if err != nil {
		return 0, fmt.Errorf("list cache keys: %w", err)
	}

	now := c.clock.Now()
	removed := 0
	for _, key := range keys {
		raw, err := c.store.Get(ctx, key)
		if err != nil {
			continue
		}
		expiresAt, _, err := decodeEntry(raw)
		if err != nil {
			continue
		}
		if expiresAt.After(now) {
			continue
		}
		if err := c.store.Delete(ctx, key); err != nil {
			return removed, fmt.Errorf("delete expired cache entry: %w", err)
		}
		removed++
	}
	return removed, nil
}

// Clear drops the entire cache namespace.
func (c *Cache) Clear(ctx context.Context) error {
	return c.store.Clear(ctx)
}

func decodeEntry(raw string) (time.Time, json.RawMessage, error) {
	var e entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return time.Time{}, nil, fmt.Errorf("decode cache entry: %w", err)
	}
	if e.ExpiresAt == "" || e.Data == nil {
		return time.Time{}, nil, errors.New("cache entry missing expiresAt or data")
	}
	expiresAt, err := time.ParseInLocation(expiresAtLayout, e.ExpiresAt, time.Local)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("parse cache entry expiry: %w", err)
	}
	return expiresAt, e.Data, nil
}
