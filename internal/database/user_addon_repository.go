package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/OdatNurd/ruinous-twitch-ui/internal/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// userAddonColumns must match the Scan order in scanUserAddon.
const userAddonColumns = `user_id, addon_id, overlay_id, config, created_at, updated_at`

// UserAddonRepo implements domain.UserAddonRepository backed by PostgreSQL.
type UserAddonRepo struct {
	pool *pgxpool.Pool
}

// NewUserAddonRepo creates a UserAddonRepo from the shared connection pool.
func NewUserAddonRepo(pool *pgxpool.Pool) *UserAddonRepo {
	return &UserAddonRepo{pool: pool}
}

func scanUserAddon(row pgx.Row) (*domain.UserAddon, error) {
	var ua domain.UserAddon
	var rawConfig []byte
	err := row.Scan(
		&ua.UserID, &ua.AddonID, &ua.OverlayID, &rawConfig,
		&ua.CreatedAt, &ua.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(rawConfig, &ua.Config); err != nil {
		return nil, fmt.Errorf("failed to parse install config: %w", err)
	}
	return &ua, nil
}

func (r *UserAddonRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.UserAddon, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userAddonColumns+` FROM user_addons WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list installs: %w", err)
	}
	defer rows.Close()

	var installs []domain.UserAddon
	for rows.Next() {
		ua, err := scanUserAddon(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan install: %w", err)
		}
		installs = append(installs, *ua)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate installs: %w", err)
	}
	return installs, nil
}

func (r *UserAddonRepo) Get(ctx context.Context, userID, addonID uuid.UUID) (*domain.UserAddon, error) {
	ua, err := scanUserAddon(r.pool.QueryRow(ctx,
		`SELECT `+userAddonColumns+` FROM user_addons WHERE user_id = $1 AND addon_id = $2`,
		userID, addonID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotInstalled
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get install: %w", err)
	}
	return ua, nil
}

func (r *UserAddonRepo) Install(ctx context.Context, userID, addonID uuid.UUID, config map[string]any) (*domain.UserAddon, error) {
	rawConfig, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize install config: %w", err)
	}

	ua, err := scanUserAddon(r.pool.QueryRow(ctx, `
		INSERT INTO user_addons (user_id, addon_id, config, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING `+userAddonColumns+`
	`, userID, addonID, string(rawConfig)))

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return nil, domain.ErrAlreadyInstalled
		case pgForeignKeyViolation:
			return nil, domain.ErrAddonNotFound
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to install addon: %w", err)
	}
	return ua, nil
}

func (r *UserAddonRepo) Uninstall(ctx context.Context, userID, addonID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM user_addons WHERE user_id = $1 AND addon_id = $2`, userID, addonID)
	if err != nil {
		return fmt.Errorf("failed to uninstall addon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotInstalled
	}
	return nil
}

func (r *UserAddonRepo) UpdateConfig(ctx context.Context, userID, addonID uuid.UUID, config map[string]any) error {
	rawConfig, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to serialize install config: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE user_addons
		SET config = $1, updated_at = NOW()
		WHERE user_id = $2 AND addon_id = $3
	`, string(rawConfig), userID, addonID)
	if err != nil {
		return fmt.Errorf("failed to update install config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotInstalled
	}
	return nil
}

func (r *UserAddonRepo) RotateOverlayID(ctx context.Context, userID, addonID uuid.UUID) (uuid.UUID, error) {
	var newID uuid.UUID
	err := r.pool.QueryRow(ctx, `
		UPDATE user_addons
		SET overlay_id = gen_random_uuid(), updated_at = NOW()
		WHERE user_id = $1 AND addon_id = $2
		RETURNING overlay_id
	`, userID, addonID).Scan(&newID)

	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, domain.ErrNotInstalled
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to rotate overlay ID: %w", err)
	}
	return newID, nil
}

// ResolveOverlay loads everything the overlay page needs in one round trip:
// the install, the addon it belongs to, and the owning user.
func (r *UserAddonRepo) ResolveOverlay(ctx context.Context, overlayID uuid.UUID) (*domain.Overlay, error) {
	var (
		overlay   domain.Overlay
		rawConfig []byte
		rawSchema []byte
	)

	err := r.pool.QueryRow(ctx, `
		SELECT ua.overlay_id, ua.config,
		       a.id, a.slug, a.name, a.author, a.description, a.icon_path,
		       a.config_schema, a.requires_overlay, a.requires_chat,
		       a.created_at, a.updated_at,
		       u.id, u.twitch_user_id, u.twitch_username, u.created_at, u.updated_at
		FROM user_addons ua
		JOIN addons a ON a.id = ua.addon_id
		JOIN users u ON u.id = ua.user_id
		WHERE ua.overlay_id = $1
	`, overlayID).Scan(
		&overlay.OverlayID, &rawConfig,
		&overlay.Addon.ID, &overlay.Addon.Slug, &overlay.Addon.Name,
		&overlay.Addon.Author, &overlay.Addon.Description, &overlay.Addon.IconPath,
		&rawSchema, &overlay.Addon.RequiresOverlay, &overlay.Addon.RequiresChat,
		&overlay.Addon.CreatedAt, &overlay.Addon.UpdatedAt,
		&overlay.Owner.ID, &overlay.Owner.TwitchUserID, &overlay.Owner.TwitchUsername,
		&overlay.Owner.CreatedAt, &overlay.Owner.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOverlayNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve overlay: %w", err)
	}

	if err := json.Unmarshal(rawConfig, &overlay.Config); err != nil {
		return nil, fmt.Errorf("failed to parse install config: %w", err)
	}
	overlay.Addon.ConfigSchema, err = domain.ParseConfigSchema(rawSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config schema for %q: %w", overlay.Addon.Slug, err)
	}
	return &overlay, nil
}
