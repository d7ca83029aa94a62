package dictionary

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Overlay is the YAML shape of a dictionary extension file:
//
//	generic:
//	  ZN: Zone
//	  XT: {expansion: Extended, strength: 0.7}
//	equipment:
//	  VAV: {T: Temperature}
//	vendor:
//	  SIEMENS: {RT: Room Temperature}
//	units:
//	  temperature: {expansion: Temperature, stems: [T, TMP]}
type Overlay struct {
	Generic   map[string]Entry            `yaml:"generic"`
	Equipment map[string]map[string]Entry `yaml:"equipment"`
	Vendor    map[string]map[string]Entry `yaml:"vendor"`
	Units     map[string]OverlayUnitRule  `yaml:"units"`
}

// OverlayUnitRule is a unit-tier rule in an overlay file.
type OverlayUnitRule struct {
	Expansion string   `yaml:"expansion"`
	Strength  float64  `yaml:"strength"`
	Stems     []string `yaml:"stems"`
}

// UnmarshalYAML accepts either a bare expansion string or a mapping.
func (e *Entry) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		e.Expansion = value.Value
		return nil
	}
	type plain Entry
	var decoded plain
	if err := value.Decode(&decoded); err != nil {
		return err
	}
	*e = Entry(decoded)
	return nil
}

// ParseOverlay decodes overlay YAML.
func ParseOverlay(data []byte) (Overlay, error) {
	var overlay Overlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return Overlay{}, fmt.Errorf("dictionary: parse overlay: %w", err)
	}
	return overlay, nil
}

// Apply adds overlay entries to b, replacing entries with the same key in the
// same tier.
func (o Overlay) Apply(b *Builder) error {
	if b == nil {
		return errors.New("dictionary: nil builder")
	}
	for token, entry := range o.Generic {
		b.GenericEntry(token, entry)
	}
	for equipmentType, entries := range o.Equipment {
		for token, entry := range entries {
			b.EquipmentEntry(equipmentType, token, entry)
		}
	}
	for vendor, entries := range o.Vendor {
		for token, entry := range entries {
			b.VendorEntry(vendor, token, entry)
		}
	}
	for class, rule := range o.Units {
		b.UnitRule(class, rule.Expansion, rule.Strength, rule.Stems...)
	}
	return nil
}

// Load builds the default dictionary extended by the overlay at path. An empty
// path yields the built-in dictionary.
func Load(path string) (*Dictionary, error) {
	builder := DefaultBuilder()
	if path == "" {
		return builder.Build(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dictionary: read overlay %s: %w", path, err)
	}
	overlay, err := ParseOverlay(data)
	if err != nil {
		return nil, err
	}
	if err := overlay.Apply(builder); err != nil {
		return nil, err
	}
	return builder.Build(), nil
}
