package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/OdatNurd/ruinous-twitch-ui/internal/domain"
	apperrors "github.com/OdatNurd/ruinous-twitch-ui/internal/errors"
	"github.com/OdatNurd/ruinous-twitch-ui/internal/logging"
	"github.com/OdatNurd/ruinous-twitch-ui/internal/metrics"
)

const catalogCacheTTL = 1 * time.Minute

// OverlayCache is the overlay lookup surface the service depends on: the
// Redis read-through cache in production, the repository directly in tests.
type OverlayCache interface {
	domain.OverlayResolver
	Invalidate(ctx context.Context, overlayID uuid.UUID) error
}

// Service is the application layer. It is the only component that references
// multiple domain components and it orchestrates all use cases.
type Service struct {
	users    domain.UserRepository
	addons   domain.AddonRepository
	installs domain.UserAddonRepository
	overlays OverlayCache
	clock    clockwork.Clock

	// The catalog changes only on deploy, so listings are served from a
	// short-lived in-memory snapshot. Singleflight collapses concurrent
	// refills after expiry.
	catalogGroup  singleflight.Group
	catalogMu     sync.RWMutex
	catalogCached []domain.Addon
	catalogExpiry time.Time
}

var _ domain.AppService = (*Service)(nil)

// NewService creates the application layer service.
func NewService(users domain.UserRepository, addons domain.AddonRepository, installs domain.UserAddonRepository, overlays OverlayCache, clock clockwork.Clock) *Service {
	return &Service{
		users:    users,
		addons:   addons,
		installs: installs,
		overlays: overlays,
		clock:    clock,
	}
}

// GetUserByID retrieves a user by internal ID.
func (s *Service) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpsertUser creates or updates a user keyed by Twitch user ID.
func (s *Service) UpsertUser(ctx context.Context, twitchUserID, twitchUsername string) (*domain.User, error) {
	return s.users.Upsert(ctx, twitchUserID, twitchUsername)
}

// ListAddons returns the catalog sorted by creation time, oldest first.
func (s *Service) ListAddons(ctx context.Context) ([]domain.Addon, error) {
	s.catalogMu.RLock()
	if s.catalogCached != nil && s.clock.Now().Before(s.catalogExpiry) {
		cached := s.catalogCached
		s.catalogMu.RUnlock()
		return cached, nil
	}
	s.catalogMu.RUnlock()

	result, err, _ := s.catalogGroup.Do("catalog", func() (any, error) {
		addons, err := s.addons.List(ctx)
		if err != nil {
			return nil, err
		}

		sort.SliceStable(addons, func(i, j int) bool {
			return addons[i].CreatedAt.Before(addons[j].CreatedAt)
		})

		s.catalogMu.Lock()
		s.catalogCached = addons
		s.catalogExpiry = s.clock.Now().Add(catalogCacheTTL)
		s.catalogMu.Unlock()

		return addons, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Addon), nil
}

// GetAddonByKey looks up an addon by slug first, then by UUID. Slugs never
// collide with UUIDs so the order is just a fast path for the common case.
func (s *Service) GetAddonByKey(ctx context.Context, key string) (*domain.Addon, error) {
	addon, err := s.addons.GetBySlug(ctx, key)
	if err == nil {
		return addon, nil
	}
	if !errors.Is(err, domain.ErrAddonNotFound) {
		return nil, err
	}

	addonID, parseErr := uuid.Parse(key)
	if parseErr != nil {
		return nil, domain.ErrAddonNotFound
	}
	return s.addons.GetByID(ctx, addonID)
}

// ListInstalls returns the user's installs keyed by addon ID, for decorating
// catalog listings.
func (s *Service) ListInstalls(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]domain.UserAddon, error) {
	installs, err := s.installs.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	byAddon := make(map[uuid.UUID]domain.UserAddon, len(installs))
	for _, install := range installs {
		byAddon[install.AddonID] = install
	}
	return byAddon, nil
}

// Install enables an addon for a user with the schema's default config.
func (s *Service) Install(ctx context.Context, userID, addonID uuid.UUID) (*domain.UserAddon, error) {
	addon, err := s.addons.GetByID(ctx, addonID)
	if err != nil {
		return nil, err
	}

	install, err := s.installs.Install(ctx, userID, addonID, addon.ConfigSchema.DefaultConfig())
	if err != nil {
		return nil, err
	}

	metrics.AddonInstallsTotal.WithLabelValues(addon.Slug, "install").Inc()
	logging.WithAddon(addon.Slug).Info("addon installed", "user_id", userID, "overlay_id", install.OverlayID)
	return install, nil
}

// Uninstall removes a user's install and drops its overlay from the cache.
func (s *Service) Uninstall(ctx context.Context, userID, addonID uuid.UUID) error {
	install, err := s.installs.Get(ctx, userID, addonID)
	if err != nil {
		return err
	}

	if err := s.installs.Uninstall(ctx, userID, addonID); err != nil {
		return err
	}

	if err := s.overlays.Invalidate(ctx, install.OverlayID); err != nil {
		slog.Warn("failed to invalidate overlay cache after uninstall",
			"overlay_id", install.OverlayID, "error", err)
	}

	if addon, err := s.addons.GetByID(ctx, addonID); err == nil {
		metrics.AddonInstallsTotal.WithLabelValues(addon.Slug, "uninstall").Inc()
	}
	logging.WithUser(userID.String()).Info("addon uninstalled", "addon_id", addonID)
	return nil
}

// SaveAddonConfig validates the payload against the addon's schema, merges
// it over the stored config, and persists the result. Fields omitted from
// the payload keep their stored values. The stale overlay cache entry is
// invalidated so open browser sources pick up the change on next load.
func (s *Service) SaveAddonConfig(ctx context.Context, userID, addonID uuid.UUID, config map[string]any) error {
	addon, err := s.addons.GetByID(ctx, addonID)
	if err != nil {
		return err
	}

	if err := addon.ConfigSchema.Validate(config); err != nil {
		return apperrors.ValidationError(fmt.Sprintf("invalid config for addon %q: %v", addon.Slug, err))
	}

	install, err := s.installs.Get(ctx, userID, addonID)
	if err != nil {
		return err
	}

	merged := make(map[string]any, len(install.Config)+len(config))
	for k, v := range install.Config {
		merged[k] = v
	}
	for k, v := range config {
		merged[k] = v
	}

	if err := s.installs.UpdateConfig(ctx, userID, addonID, merged); err != nil {
		return err
	}

	if err := s.overlays.Invalidate(ctx, install.OverlayID); err != nil {
		slog.Warn("failed to invalidate overlay cache after config save",
			"overlay_id", install.OverlayID, "error", err)
	}
	return nil
}

// RotateOverlayID replaces the overlay ID of an install, invalidating the
// old one. Used when an overlay URL leaks on stream.
func (s *Service) RotateOverlayID(ctx context.Context, userID, addonID uuid.UUID) (uuid.UUID, error) {
	install, err := s.installs.Get(ctx, userID, addonID)
	if err != nil {
		return uuid.Nil, err
	}

	newID, err := s.installs.RotateOverlayID(ctx, userID, addonID)
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.overlays.Invalidate(ctx, install.OverlayID); err != nil {
		slog.Warn("failed to invalidate overlay cache after rotation",
			"overlay_id", install.OverlayID, "error", err)
	}

	logging.WithOverlay(newID.String()).Info("overlay ID rotated", "user_id", userID, "addon_id", addonID)
	return newID, nil
}

// GetOverlay resolves an overlay through the read-through cache.
func (s *Service) GetOverlay(ctx context.Context, overlayID uuid.UUID) (*domain.Overlay, error) {
	return s.overlays.ResolveOverlay(ctx, overlayID)
}
