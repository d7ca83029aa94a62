package application

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	matching "bacnet-commissioning/internal/matching/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, matching.DefaultApplyOptions(), cfg.OptionsFor("VAV"))
	assert.Equal(t, 0.6, cfg.SuggestionThreshold)
	assert.Equal(t, 0.2, cfg.TypeBonus)
}

func TestParseConfigOverrides(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
defaults:
  confidence_threshold: 0.8
  copy_units: false
equipment_types:
  vav:
    matching_facet: curRef
    allow_partial_matches: false
suggestion_threshold: 0.5
`))
	require.NoError(t, err)

	defaults := cfg.OptionsFor("AHU")
	assert.Equal(t, 0.8, defaults.ConfidenceThreshold)
	assert.False(t, defaults.CopyUnits)
	assert.True(t, defaults.CopyNavName)
	assert.Equal(t, matching.FacetDisplayName, defaults.Facet)

	vav := cfg.OptionsFor("Vav")
	assert.Equal(t, matching.FacetObjectReference, vav.Facet)
	assert.False(t, vav.AllowPartialMatches)
	assert.Equal(t, 0.8, vav.ConfidenceThreshold)
	assert.False(t, vav.CopyUnits)

	assert.Equal(t, 0.5, cfg.SuggestionThreshold)
	assert.Equal(t, DefaultTypeBonus, cfg.TypeBonus)
}

func TestParseConfigExplicitZero(t *testing.T) {
	cfg, err := ParseConfig([]byte("type_bonus: 0\nsuggestion_threshold: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.TypeBonus)
	assert.Equal(t, 0.0, cfg.SuggestionThreshold)

	cfg, err = ParseConfig([]byte("defaults:\n  copy_units: false\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultTypeBonus, cfg.TypeBonus)
	assert.Equal(t, DefaultSuggestionThreshold, cfg.SuggestionThreshold)
}

func TestParseConfigRejectsInvalid(t *testing.T) {
	_, err := ParseConfig([]byte("defaults:\n  confidence_threshold: 1.5\n"))
	require.Error(t, err)

	_, err = ParseConfig([]byte("equipment_types:\n  ahu:\n    matching_facet: colour\n"))
	require.Error(t, err)

	_, err = ParseConfig([]byte("defaults: [1, 2]"))
	require.Error(t, err)
}

func TestLoadConfigFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matching.yaml")
	require.NoError(t, os.WriteFile(path, []byte("type_bonus: 0.1\n"), 0o600))
	t.Setenv("MATCHING_CONFIG", path)
	t.Setenv("MATCHING_CONFIDENCE_THRESHOLD", "0.65")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 0.1, cfg.TypeBonus)
	assert.Equal(t, 0.65, cfg.OptionsFor("").ConfidenceThreshold)

	t.Setenv("MATCHING_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = LoadConfig()
	require.Error(t, err)
}
