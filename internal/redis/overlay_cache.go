package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/OdatNurd/ruinous-twitch-ui/internal/domain"
	"github.com/OdatNurd/ruinous-twitch-ui/internal/metrics"
)

const (
	overlayCachePrefix = "overlay_cache:"
	overlayCacheTTL    = 1 * time.Hour
)

// OverlayCache provides read-through overlay resolution: Redis first, then
// PostgreSQL. Overlay pages are fetched by OBS browser sources on every
// scene switch, so the hot path should not touch the database.
type OverlayCache struct {
	rdb      goredis.Cmdable
	resolver domain.OverlayResolver
}

// NewOverlayCache creates a read-through overlay cache over the given resolver.
func NewOverlayCache(rdb goredis.Cmdable, resolver domain.OverlayResolver) *OverlayCache {
	return &OverlayCache{rdb: rdb, resolver: resolver}
}

// ResolveOverlay looks up an overlay by ID with read-through caching.
// Read path: Redis GET -> PostgreSQL query -> populate Redis cache.
// Not-found is never cached so a fresh install shows up immediately.
func (c *OverlayCache) ResolveOverlay(ctx context.Context, overlayID uuid.UUID) (*domain.Overlay, error) {
	key := overlayCachePrefix + overlayID.String()

	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var overlay domain.Overlay
		if err := json.Unmarshal(data, &overlay); err != nil {
			slog.Warn("Failed to unmarshal cached overlay, falling through to PostgreSQL",
				"overlay_id", overlayID, "error", err)
		} else {
			metrics.OverlayCacheRedisHits.Inc()
			return &overlay, nil
		}
	} else if !errors.Is(err, goredis.Nil) {
		slog.Warn("Redis overlay cache GET failed, falling through to PostgreSQL",
			"overlay_id", overlayID, "error", err)
	}

	overlay, err := c.resolver.ResolveOverlay(ctx, overlayID)
	if err != nil {
		return nil, err
	}

	metrics.OverlayCachePostgresHits.Inc()

	// Populate Redis cache (best-effort)
	if encoded, err := json.Marshal(overlay); err == nil {
		if err := c.rdb.Set(ctx, key, encoded, overlayCacheTTL).Err(); err != nil {
			slog.Warn("Failed to populate Redis overlay cache",
				"overlay_id", overlayID, "error", err)
		}
	}

	return overlay, nil
}

// Invalidate removes an overlay from the Redis cache. Called whenever the
// install behind the overlay changes: config save, uninstall, ID rotation.
func (c *OverlayCache) Invalidate(ctx context.Context, overlayID uuid.UUID) error {
	if err := c.rdb.Del(ctx, overlayCachePrefix+overlayID.String()).Err(); err != nil {
		return fmt.Errorf("failed to invalidate overlay cache: %w", err)
	}
	return nil
}
