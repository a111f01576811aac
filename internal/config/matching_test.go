package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-lost-found/internal/domain/matching"
)

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matching.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMatching_PartialOverridesDefaults(t *testing.T) {
	path := writeTempYAML(t, `
weights:
  fur_color: 5
match_threshold: 9
`)

	cfg, err := LoadMatching(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Weights.FurColor)
	assert.Equal(t, 9, cfg.MatchThreshold)

	// Lo no especificado conserva los defaults.
	def := matching.DefaultConfig()
	assert.Equal(t, def.Weights.BreedExact, cfg.Weights.BreedExact)
	assert.Equal(t, def.QueryThreshold, cfg.QueryThreshold)
	assert.Equal(t, def.SearchRadiusKm, cfg.SearchRadiusKm)
}

func TestLoadMatching_Validation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"zero threshold", "match_threshold: 0"},
		{"negative radius", "search_radius_km: -1"},
		{"score radius beyond search radius", "score_radius_km: 20"},
		{"broken yaml", "weights: ["},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadMatching(writeTempYAML(t, tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadMatching_MissingFile(t *testing.T) {
	_, err := LoadMatching(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestMatchingHolder_EmptyPathUsesDefaults(t *testing.T) {
	h, err := NewMatchingHolder("", nil)
	require.NoError(t, err)

	assert.Equal(t, matching.DefaultConfig(), h.Current())
	assert.NoError(t, h.Reload())
}

func TestMatchingHolder_ReloadSwapsPolicy(t *testing.T) {
	path := writeTempYAML(t, "match_threshold: 9")

	h, err := NewMatchingHolder(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 9, h.Current().MatchThreshold)

	require.NoError(t, os.WriteFile(path, []byte("match_threshold: 5"), 0o644))
	require.NoError(t, h.Reload())
	assert.Equal(t, 5, h.Current().MatchThreshold)
}

func TestMatchingHolder_BrokenReloadKeepsPrevious(t *testing.T) {
	path := writeTempYAML(t, "match_threshold: 9")

	h, err := NewMatchingHolder(path, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("match_threshold: 0"), 0o644))
	assert.Error(t, h.Reload())

	// La política vigente no cambia ante un archivo inválido.
	assert.Equal(t, 9, h.Current().MatchThreshold)
}
