package application

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	matching "bacnet-commissioning/internal/matching/domain"
)

// Settings are template application options as written in YAML. Unset
// fields inherit from the defaults.
type Settings struct {
	MatchingFacet       string   `yaml:"matching_facet"`
	ConfidenceThreshold *float64 `yaml:"confidence_threshold"`
	AllowPartialMatches *bool    `yaml:"allow_partial_matches"`
	CopyNavName         *bool    `yaml:"copy_nav_name"`
	CopyUnits           *bool    `yaml:"copy_units"`
}

// Config defines matching configuration.
type Config struct {
	Defaults            Settings            `yaml:"defaults"`
	EquipmentTypes      map[string]Settings `yaml:"equipment_types"`
	SuggestionThreshold float64             `yaml:"suggestion_threshold"`
	TypeBonus           float64             `yaml:"type_bonus"`
}

// DefaultConfig returns the product defaults.
func DefaultConfig() Config {
	defaults := matching.DefaultApplyOptions()
	return Config{
		Defaults: Settings{
			MatchingFacet:       string(defaults.Facet),
			ConfidenceThreshold: &defaults.ConfidenceThreshold,
			AllowPartialMatches: &defaults.AllowPartialMatches,
			CopyNavName:         &defaults.CopyNavName,
			CopyUnits:           &defaults.CopyUnits,
		},
		SuggestionThreshold: DefaultSuggestionThreshold,
		TypeBonus:           DefaultTypeBonus,
	}
}

// LoadConfig reads MATCHING_CONFIG when set and applies env overrides.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if path := os.Getenv("MATCHING_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if cfg, err = ParseConfig(data); err != nil {
			return cfg, err
		}
	}
	if value, ok := getenvFloat("MATCHING_CONFIDENCE_THRESHOLD"); ok {
		cfg.Defaults.ConfidenceThreshold = &value
	}
	if value, ok := getenvFloat("MATCHING_SUGGESTION_THRESHOLD"); ok {
		cfg.SuggestionThreshold = value
	}
	return cfg, cfg.Validate()
}

// configFile mirrors Config with pointer scalars so an explicit zero is
// distinguishable from an absent key.
type configFile struct {
	Defaults            Settings            `yaml:"defaults"`
	EquipmentTypes      map[string]Settings `yaml:"equipment_types"`
	SuggestionThreshold *float64            `yaml:"suggestion_threshold"`
	TypeBonus           *float64            `yaml:"type_bonus"`
}

// ParseConfig decodes YAML over the defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	var file configFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, err
	}
	cfg.Defaults = mergeSettings(cfg.Defaults, file.Defaults)
	if len(file.EquipmentTypes) > 0 {
		cfg.EquipmentTypes = make(map[string]Settings, len(file.EquipmentTypes))
		for equipmentType, settings := range file.EquipmentTypes {
			cfg.EquipmentTypes[strings.ToUpper(equipmentType)] = settings
		}
	}
	if file.SuggestionThreshold != nil {
		cfg.SuggestionThreshold = *file.SuggestionThreshold
	}
	if file.TypeBonus != nil {
		cfg.TypeBonus = *file.TypeBonus
	}
	return cfg, cfg.Validate()
}

// Validate checks every resolved option set.
func (c Config) Validate() error {
	if c.SuggestionThreshold < 0 || c.SuggestionThreshold > 1 {
		return errors.New("matching config: suggestion_threshold out of range")
	}
	if c.TypeBonus < 0 || c.TypeBonus > 1 {
		return errors.New("matching config: type_bonus out of range")
	}
	if err := c.OptionsFor("").Validate(); err != nil {
		return err
	}
	for equipmentType := range c.EquipmentTypes {
		if err := c.OptionsFor(equipmentType).Validate(); err != nil {
			return errors.New("matching config: " + equipmentType + ": " + err.Error())
		}
	}
	return nil
}

// OptionsFor resolves the application options for an equipment type.
func (c Config) OptionsFor(equipmentType string) matching.ApplyOptions {
	settings := c.Defaults
	if override, ok := c.EquipmentTypes[strings.ToUpper(equipmentType)]; ok {
		settings = mergeSettings(settings, override)
	}
	opts := matching.DefaultApplyOptions()
	if settings.MatchingFacet != "" {
		if facet, err := matching.ParseFacet(settings.MatchingFacet); err == nil {
			opts.Facet = facet
		} else {
			opts.Facet = matching.Facet(settings.MatchingFacet)
		}
	}
	if settings.ConfidenceThreshold != nil {
		opts.ConfidenceThreshold = *settings.ConfidenceThreshold
	}
	if settings.AllowPartialMatches != nil {
		opts.AllowPartialMatches = *settings.AllowPartialMatches
	}
	if settings.CopyNavName != nil {
		opts.CopyNavName = *settings.CopyNavName
	}
	if settings.CopyUnits != nil {
		opts.CopyUnits = *settings.CopyUnits
	}
	return opts
}

func mergeSettings(base, override Settings) Settings {
	if override.MatchingFacet != "" {
		base.MatchingFacet = override.MatchingFacet
	}
	if override.ConfidenceThreshold != nil {
		base.ConfidenceThreshold = override.ConfidenceThreshold
	}
	if override.AllowPartialMatches != nil {
		base.AllowPartialMatches = override.AllowPartialMatches
	}
	if override.CopyNavName != nil {
		base.CopyNavName = override.CopyNavName
	}
	if override.CopyUnits != nil {
		base.CopyUnits = override.CopyUnits
	}
	return base
}

func getenvFloat(key string) (float64, bool) {
	value := os.Getenv(key)
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}
