// Package dictionary holds the layered, read-only acronym tables used to expand
// point-name tokens. Tiers are consulted from most to least specific:
// vendor, equipment type, generic, then unit-inferred.
package dictionary

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Tier identifies which table resolved a token.
type Tier string

const (
	TierVendor    Tier = "vendor"
	TierEquipment Tier = "equipment"
	TierGeneric   Tier = "generic"
	TierUnit      Tier = "unit"
	TierNone      Tier = "none"
)

// Rank orders tiers by specificity; higher is more specific.
func (t Tier) Rank() int {
	switch t {
	case TierVendor:
		return 4
	case TierEquipment:
		return 3
	case TierGeneric:
		return 2
	case TierUnit:
		return 1
	default:
		return 0
	}
}

// maxUnitStemLength bounds what counts as a short, ambiguous stem.
const maxUnitStemLength = 3

// Context narrows a lookup to a vendor, an equipment type and a unit hint.
type Context struct {
	EquipmentType string `json:"equipment_type,omitempty"`
	Vendor        string `json:"vendor,omitempty"`
	Units         string `json:"units,omitempty"`
}

// Entry is one dictionary value.
type Entry struct {
	Expansion string  `yaml:"expansion"`
	Strength  float64 `yaml:"strength"`
}

// Expansion is the result of expanding one token.
type Expansion struct {
	Text     string
	Tier     Tier
	Strength float64
}

// Resolved reports whether any tier matched.
func (e Expansion) Resolved() bool {
	return e.Tier != TierNone
}

type unitRule struct {
	expansion string
	strength  float64
	stems     map[string]struct{}
}

type layer struct {
	tier    Tier
	entries map[string]Entry
}

// Dictionary is immutable once built and safe for concurrent use.
type Dictionary struct {
	generic   map[string]Entry
	equipment map[string]map[string]Entry
	vendor    map[string]map[string]Entry
	units     map[string]unitRule
	version   string
}

// Version is a content digest, stable for identical tables.
func (d *Dictionary) Version() string {
	if d == nil {
		return ""
	}
	return d.version
}

// Expand resolves token against the tiers selected by ctx. A token with no
// match anywhere comes back unchanged with TierNone and strength 0.
func (d *Dictionary) Expand(token string, ctx Context) Expansion {
	passthrough := Expansion{Text: token, Tier: TierNone}
	if d == nil || token == "" {
		return passthrough
	}
	key := normalizeKey(token)
	for _, l := range d.layers(ctx) {
		if entry, ok := l.entries[key]; ok {
			return Expansion{Text: entry.Expansion, Tier: l.tier, Strength: entry.Strength}
		}
	}
	if rule, ok := d.unitRuleFor(key, ctx.Units); ok {
		return Expansion{Text: rule.expansion, Tier: TierUnit, Strength: rule.strength}
	}
	return passthrough
}

func (d *Dictionary) layers(ctx Context) []layer {
	layers := make([]layer, 0, 3)
	if ctx.Vendor != "" {
		if entries, ok := d.vendor[normalizeKey(ctx.Vendor)]; ok {
			layers = append(layers, layer{tier: TierVendor, entries: entries})
		}
	}
	if ctx.EquipmentType != "" {
		if entries, ok := d.equipment[normalizeKey(ctx.EquipmentType)]; ok {
			layers = append(layers, layer{tier: TierEquipment, entries: entries})
		}
	}
	return append(layers, layer{tier: TierGeneric, entries: d.generic})
}

func (d *Dictionary) unitRuleFor(key, units string) (unitRule, bool) {
	if units == "" || !isShortStem(key) {
		return unitRule{}, false
	}
	class := UnitClass(units)
	if class == "" {
		return unitRule{}, false
	}
	rule, ok := d.units[class]
	if !ok {
		return unitRule{}, false
	}
	if _, ok := rule.stems[key]; !ok {
		return unitRule{}, false
	}
	return rule, true
}

func isShortStem(key string) bool {
	if key == "" || len([]rune(key)) > maxUnitStemLength {
		return false
	}
	for _, r := range key {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func normalizeKey(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

func digest(generic map[string]Entry, equipment, vendor map[string]map[string]Entry, units map[string]unitRule) string {
	var b strings.Builder
	writeEntries := func(prefix string, entries map[string]Entry) {
		keys := make([]string, 0, len(entries))
		for key := range entries {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(&b, "%s|%s|%s|%g\n", prefix, key, entries[key].Expansion, entries[key].Strength)
		}
	}
	writeScoped := func(tier string, scoped map[string]map[string]Entry) {
		scopes := make([]string, 0, len(scoped))
		for scope := range scoped {
			scopes = append(scopes, scope)
		}
		sort.Strings(scopes)
		for _, scope := range scopes {
			writeEntries(tier+"/"+scope, scoped[scope])
		}
	}

	writeEntries("generic", generic)
	writeScoped("equipment", equipment)
	writeScoped("vendor", vendor)

	classes := make([]string, 0, len(units))
	for class := range units {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	for _, class := range classes {
		rule := units[class]
		stems := make([]string, 0, len(rule.stems))
		for stem := range rule.stems {
			stems = append(stems, stem)
		}
		sort.Strings(stems)
		fmt.Fprintf(&b, "unit|%s|%s|%g|%s\n", class, rule.expansion, rule.strength, strings.Join(stems, ","))
	}

	sum := sha1.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:8])
}
