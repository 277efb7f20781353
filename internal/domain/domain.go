package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// --- Model types ---

type User struct {
	ID             uuid.UUID `db:"id"`
	TwitchUserID   string    `db:"twitch_user_id"`
	TwitchUsername string    `db:"twitch_username"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Addon is a catalog entry for a third-party integration a streamer can
// enable. ConfigSchema is persisted as serialized JSON and parsed on read.
type Addon struct {
	ID              uuid.UUID    `db:"id"`
	Slug            string       `db:"slug"`
	Name            string       `db:"name"`
	Author          string       `db:"author"`
	Description     string       `db:"description"`
	IconPath        string       `db:"icon_path"`
	ConfigSchema    ConfigSchema `db:"config_schema"`
	RequiresOverlay bool         `db:"requires_overlay"`
	RequiresChat    bool         `db:"requires_chat"`
	CreatedAt       time.Time    `db:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at"`
}

// UserAddon is one user's installation of an addon. Config is persisted as
// serialized JSON and parsed on read. OverlayID is the unguessable token the
// browser-source overlay page is addressed by.
type UserAddon struct {
	UserID    uuid.UUID      `db:"user_id"`
	AddonID   uuid.UUID      `db:"addon_id"`
	OverlayID uuid.UUID      `db:"overlay_id"`
	Config    map[string]any `db:"config"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

// Overlay is the resolved view behind an overlay URL: the installation, the
// addon it belongs to, and the owning user.
type Overlay struct {
	OverlayID uuid.UUID      `json:"overlayId"`
	Addon     Addon          `json:"addon"`
	Owner     User           `json:"owner"`
	Config    map[string]any `json:"config"`
}

// --- Interfaces ---

// UserRepository abstracts user persistence.
type UserRepository interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	Upsert(ctx context.Context, twitchUserID, twitchUsername string) (*User, error)
}

// AddonRepository abstracts the addon catalog.
type AddonRepository interface {
	List(ctx context.Context) ([]Addon, error)
	GetBySlug(ctx context.Context, slug string) (*Addon, error)
	GetByID(ctx context.Context, addonID uuid.UUID) (*Addon, error)
	UpsertCatalog(ctx context.Context, addons []Addon) error
}

// UserAddonRepository abstracts installation persistence and overlay
// resolution.
type UserAddonRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]UserAddon, error)
	Get(ctx context.Context, userID, addonID uuid.UUID) (*UserAddon, error)
	Install(ctx context.Context, userID, addonID uuid.UUID, config map[string]any) (*UserAddon, error)
	Uninstall(ctx context.Context, userID, addonID uuid.UUID) error
	UpdateConfig(ctx context.Context, userID, addonID uuid.UUID, config map[string]any) error
	RotateOverlayID(ctx context.Context, userID, addonID uuid.UUID) (uuid.UUID, error)
	ResolveOverlay(ctx context.Context, overlayID uuid.UUID) (*Overlay, error)
}

// OverlayResolver is the subset of UserAddonRepository the overlay cache
// falls through to.
type OverlayResolver interface {
	ResolveOverlay(ctx context.Context, overlayID uuid.UUID) (*Overlay, error)
}

// AppService is the application layer contract. Handlers route all
// operations through here.
type AppService interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (*User, error)
	UpsertUser(ctx context.Context, twitchUserID, twitchUsername string) (*User, error)

	ListAddons(ctx context.Context) ([]Addon, error)
	GetAddonByKey(ctx context.Context, key string) (*Addon, error)

	ListInstalls(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]UserAddon, error)
	Install(ctx context.Context, userID, addonID uuid.UUID) (*UserAddon, error)
	Uninstall(ctx context.Context, userID, addonID uuid.UUID) error
	SaveAddonConfig(ctx context.Context, userID, addonID uuid.UUID, config map[string]any) error
	RotateOverlayID(ctx context.Context, userID, addonID uuid.UUID) (uuid.UUID, error)

	GetOverlay(ctx context.Context, overlayID uuid.UUID) (*Overlay, error)
}
