package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/OdatNurd/ruinous-twitch-ui/internal/domain"
)

// addonColumns must match the Scan order in scanAddon.
const addonColumns = `id, slug, name, author, description, icon_path, config_schema, requires_overlay, requires_chat, created_at, updated_at`

// AddonRepo implements domain.AddonRepository backed by PostgreSQL.
type AddonRepo struct {
	pool *pgxpool.Pool
}

// NewAddonRepo creates an AddonRepo from the shared connection pool.
func NewAddonRepo(pool *pgxpool.Pool) *AddonRepo {
	return &AddonRepo{pool: pool}
}

func scanAddon(row pgx.Row) (*domain.Addon, error) {
	var addon domain.Addon
	var rawSchema []byte
	err := row.Scan(
		&addon.ID, &addon.Slug, &addon.Name, &addon.Author,
		&addon.Description, &addon.IconPath, &rawSchema,
		&addon.RequiresOverlay, &addon.RequiresChat,
		&addon.CreatedAt, &addon.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	addon.ConfigSchema, err = domain.ParseConfigSchema(rawSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config schema for %q: %w", addon.Slug, err)
	}
	return &addon, nil
}

func (r *AddonRepo) List(ctx context.Context) ([]domain.Addon, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+addonColumns+` FROM addons ORDER BY created_at, slug`)
	if err != nil {
		return nil, fmt.Errorf("failed to list addons: %w", err)
	}
	defer rows.Close()

	var addons []domain.Addon
	for rows.Next() {
		addon, err := scanAddon(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan addon: %w", err)
		}
		addons = append(addons, *addon)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate addons: %w", err)
	}
	return addons, nil
}

func (r *AddonRepo) GetBySlug(ctx context.Context, slug string) (*domain.Addon, error) {
	addon, err := scanAddon(r.pool.QueryRow(ctx,
		`SELECT `+addonColumns+` FROM addons WHERE slug = $1`, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAddonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get addon by slug: %w", err)
	}
	return addon, nil
}

func (r *AddonRepo) GetByID(ctx context.Context, addonID uuid.UUID) (*domain.Addon, error) {
	addon, err := scanAddon(r.pool.QueryRow(ctx,
		`SELECT `+addonColumns+` FROM addons WHERE id = $1`, addonID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAddonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get addon by ID: %w", err)
	}
	return addon, nil
}

// UpsertCatalog inserts or refreshes the given addon definitions keyed by
// slug, inside a single transaction. Existing install rows keep their
// addon ID because the slug is the stable identity.
func (r *AddonRepo) UpsertCatalog(ctx context.Context, addons []domain.Addon) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	for _, addon := range addons {
		rawSchema, err := json.Marshal(addon.ConfigSchema)
		if err != nil {
			return fmt.Errorf("failed to serialize config schema for %q: %w", addon.Slug, err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO addons (slug, name, author, description, icon_path, config_schema, requires_overlay, requires_chat, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			ON CONFLICT (slug) DO UPDATE SET
				name = EXCLUDED.name,
				author = EXCLUDED.author,
				description = EXCLUDED.description,
				icon_path = EXCLUDED.icon_path,
				config_schema = EXCLUDED.config_schema,
				requires_overlay = EXCLUDED.requires_overlay,
				requires_chat = EXCLUDED.requires_chat,
				updated_at = NOW()
		`, addon.Slug, addon.Name, addon.Author, addon.Description,
			addon.IconPath, string(rawSchema), addon.RequiresOverlay, addon.RequiresChat)
		if err != nil {
			return fmt.Errorf("failed to upsert addon %q: %w", addon.Slug, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
