package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/OdatNurd/ruinous-twitch-ui/internal/domain"
)

// CreateTestUser creates a user with default values for testing.
func CreateTestUser(t *testing.T, repo *UserRepo, twitchUserID string) *domain.User {
	t.Helper()

	user, err := repo.Upsert(context.Background(), twitchUserID, "testuser_"+twitchUserID)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, user.ID)

	return user
}

// CreateTestAddon seeds a single catalog addon and returns the stored row.
func CreateTestAddon(t *testing.T, repo *AddonRepo, slug string) *domain.Addon {
	t.Helper()
	ctx := context.Background()

	err := repo.UpsertCatalog(ctx, []domain.Addon{{
		Slug:        slug,
		Name:        "Test " + slug,
		Author:      "tester",
		Description: "test addon " + slug,
		IconPath:    "/icons/" + slug + ".svg",
		ConfigSchema: domain.ConfigSchema{
			{Field: "title", Type: domain.FieldString, Default: "hello"},
			{Field: "count", Type: domain.FieldNumber, Default: float64(5)},
		},
		RequiresOverlay: true,
	}})
	require.NoError(t, err)

	addon, err := repo.GetBySlug(ctx, slug)
	require.NoError(t, err)
	return addon
}
