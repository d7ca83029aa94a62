package dictionary

// Builder accumulates dictionary entries. It is not safe for concurrent use;
// Build returns an independent, immutable Dictionary.
type Builder struct {
	generic   map[string]Entry
	equipment map[string]map[string]Entry
	vendor    map[string]map[string]Entry
	units     map[string]unitRule
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		generic:   make(map[string]Entry),
		equipment: make(map[string]map[string]Entry),
		vendor:    make(map[string]map[string]Entry),
		units:     make(map[string]unitRule),
	}
}

// DefaultBuilder returns a builder seeded with the built-in HVAC tables.
func DefaultBuilder() *Builder {
	b := NewBuilder()
	for token, expansion := range builtinGeneric {
		b.Generic(token, expansion)
	}
	for equipmentType, entries := range builtinEquipment {
		for token, expansion := range entries {
			b.Equipment(equipmentType, token, expansion)
		}
	}
	for vendor, entries := range builtinVendor {
		for token, expansion := range entries {
			b.Vendor(vendor, token, expansion)
		}
	}
	for class, rule := range builtinUnitRules {
		b.UnitRule(class, rule.expansion, rule.strength, rule.stems...)
	}
	return b
}

// Default builds the built-in dictionary.
func Default() *Dictionary {
	return DefaultBuilder().Build()
}

// Generic adds a generic entry with full strength.
func (b *Builder) Generic(token, expansion string) *Builder {
	return b.GenericEntry(token, Entry{Expansion: expansion})
}

// GenericEntry adds a generic entry.
func (b *Builder) GenericEntry(token string, entry Entry) *Builder {
	if key, ok := entryKey(token, entry); ok {
		b.generic[key] = withDefaultStrength(entry)
	}
	return b
}

// Equipment adds an entry scoped to an equipment type with full strength.
func (b *Builder) Equipment(equipmentType, token, expansion string) *Builder {
	return b.EquipmentEntry(equipmentType, token, Entry{Expansion: expansion})
}

// EquipmentEntry adds an entry scoped to an equipment type.
func (b *Builder) EquipmentEntry(equipmentType, token string, entry Entry) *Builder {
	addScoped(b.equipment, equipmentType, token, entry)
	return b
}

// Vendor adds an entry scoped to a vendor with full strength.
func (b *Builder) Vendor(vendor, token, expansion string) *Builder {
	return b.VendorEntry(vendor, token, Entry{Expansion: expansion})
}

// VendorEntry adds an entry scoped to a vendor.
func (b *Builder) VendorEntry(vendor, token string, entry Entry) *Builder {
	addScoped(b.vendor, vendor, token, entry)
	return b
}

// UnitRule maps short stems to expansion when the units resolve to class.
// A strength of zero selects the default unit strength.
func (b *Builder) UnitRule(class, expansion string, strength float64, stems ...string) *Builder {
	if class == "" || expansion == "" {
		return b
	}
	if strength <= 0 || strength > 1 {
		strength = defaultUnitStrength
	}
	rule, ok := b.units[class]
	if !ok {
		rule = unitRule{stems: make(map[string]struct{})}
	}
	rule.expansion = expansion
	rule.strength = strength
	for _, stem := range stems {
		if key := normalizeKey(stem); key != "" {
			rule.stems[key] = struct{}{}
		}
	}
	b.units[class] = rule
	return b
}

// Build freezes the current entries into a Dictionary.
func (b *Builder) Build() *Dictionary {
	generic := copyEntries(b.generic)
	equipment := copyScoped(b.equipment)
	vendor := copyScoped(b.vendor)
	units := make(map[string]unitRule, len(b.units))
	for class, rule := range b.units {
		stems := make(map[string]struct{}, len(rule.stems))
		for stem := range rule.stems {
			stems[stem] = struct{}{}
		}
		units[class] = unitRule{expansion: rule.expansion, strength: rule.strength, stems: stems}
	}
	return &Dictionary{
		generic:   generic,
		equipment: equipment,
		vendor:    vendor,
		units:     units,
		version:   digest(generic, equipment, vendor, units),
	}
}

const defaultUnitStrength = 0.8

func entryKey(token string, entry Entry) (string, bool) {
	key := normalizeKey(token)
	if key == "" || entry.Expansion == "" {
		return "", false
	}
	return key, true
}

func withDefaultStrength(entry Entry) Entry {
	if entry.Strength <= 0 || entry.Strength > 1 {
		entry.Strength = 1
	}
	return entry
}

func addScoped(scoped map[string]map[string]Entry, scope, token string, entry Entry) {
	scopeKey := normalizeKey(scope)
	key, ok := entryKey(token, entry)
	if scopeKey == "" || !ok {
		return
	}
	entries, exists := scoped[scopeKey]
	if !exists {
		entries = make(map[string]Entry)
		scoped[scopeKey] = entries
	}
	entries[key] = withDefaultStrength(entry)
}

func copyEntries(src map[string]Entry) map[string]Entry {
	dst := make(map[string]Entry, len(src))
	for key, entry := range src {
		dst[key] = entry
	}
	return dst
}

func copyScoped(src map[string]map[string]Entry) map[string]map[string]Entry {
	dst := make(map[string]map[string]Entry, len(src))
	for scope, entries := range src {
		dst[scope] = copyEntries(entries)
	}
	return dst
}
