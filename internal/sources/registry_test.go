package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/venari/internal/common"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(common.NewDefaultConfig(), common.GetLogger())
}

func TestRegistryContents(t *testing.T) {
	registry := newTestRegistry(t)

	assert.Len(t, registry.All(), 27)
	assert.Len(t, registry.FreeNames(), 19)
	assert.Len(t, registry.APIKeyNames(), 8)

	for _, name := range []string{
		"RemoteOK", "Greenhouse", "Lever", "Ashby", "Workable",
		"HN Who is hiring", "LinkedIn (Direct)", "GOV.UK Find a Job",
		"Adzuna", "Reed", "USAJobs", "Google Jobs", "JobData",
	} {
		_, ok := registry.Get(name)
		assert.True(t, ok, "registry should contain %s", name)
	}

	_, ok := registry.Get("Monster")
	assert.False(t, ok)
}

func TestRegistryAvailability(t *testing.T) {
	registry := newTestRegistry(t)

	// Free sources work without any configuration
	for _, name := range registry.FreeNames() {
		source, ok := registry.Get(name)
		require.True(t, ok)
		assert.True(t, source.Available(), "%s should be available without keys", name)
	}

	// Keyed providers report unavailable until credentials arrive,
	// except JobData which has an anonymous mode
	for _, name := range registry.APIKeyNames() {
		source, ok := registry.Get(name)
		require.True(t, ok)
		if name == "JobData" {
			assert.True(t, source.Available())
			continue
		}
		assert.False(t, source.Available(), "%s should require credentials", name)
	}
}

func TestRegistryOrderStable(t *testing.T) {
	registry := newTestRegistry(t)

	names := registry.Names()
	require.NotEmpty(t, names)
	assert.Equal(t, "RemoteOK", names[0])
	assert.Equal(t, append(append([]string{}, registry.FreeNames()...), registry.APIKeyNames()...), names)
}
