package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin_SlugsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, addon := range Builtin() {
		assert.False(t, seen[addon.Slug], "duplicate slug %q", addon.Slug)
		seen[addon.Slug] = true
	}
}

func TestBuiltin_SchemasProduceDefaults(t *testing.T) {
	for _, addon := range Builtin() {
		defaults := addon.ConfigSchema.DefaultConfig()
		require.NoError(t, addon.ConfigSchema.Validate(defaults),
			"defaults for %q must pass their own schema", addon.Slug)
	}
}

func TestBuiltin_MetadataPresent(t *testing.T) {
	for _, addon := range Builtin() {
		assert.NotEmpty(t, addon.Name)
		assert.NotEmpty(t, addon.Author)
		assert.NotEmpty(t, addon.Description)
		assert.NotEmpty(t, addon.IconPath)
	}
}
