package dictionary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandTierOrder(t *testing.T) {
	dict := NewBuilder().
		Generic("RT", "Runtime").
		Equipment("VAV", "RT", "Reheat").
		Vendor("Siemens", "RT", "Room Temperature").
		Build()

	cases := []struct {
		name string
		ctx  Context
		text string
		tier Tier
	}{
		{name: "generic only", ctx: Context{}, text: "Runtime", tier: TierGeneric},
		{name: "equipment beats generic", ctx: Context{EquipmentType: "vav"}, text: "Reheat", tier: TierEquipment},
		{name: "vendor beats all", ctx: Context{EquipmentType: "VAV", Vendor: "SIEMENS"}, text: "Room Temperature", tier: TierVendor},
		{name: "unknown vendor falls through", ctx: Context{Vendor: "Acme"}, text: "Runtime", tier: TierGeneric},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := dict.Expand("rt", tc.ctx)
			assert.Equal(t, tc.text, got.Text)
			assert.Equal(t, tc.tier, got.Tier)
			assert.Equal(t, 1.0, got.Strength)
		})
	}
}

func TestExpandSpecificityIgnoresInsertionOrder(t *testing.T) {
	vendorFirst := NewBuilder().
		Vendor("JCI", "ZN", "Zone Vendor").
		Generic("ZN", "Zone Generic").
		Build()
	genericFirst := NewBuilder().
		Generic("ZN", "Zone Generic").
		Vendor("JCI", "ZN", "Zone Vendor").
		Build()

	ctx := Context{Vendor: "jci"}
	for _, dict := range []*Dictionary{vendorFirst, genericFirst} {
		got := dict.Expand("ZN", ctx)
		assert.Equal(t, "Zone Vendor", got.Text)
		assert.Equal(t, TierVendor, got.Tier)
	}
}

func TestExpandUnitTier(t *testing.T) {
	dict := Default()

	got := dict.Expand("T", Context{Units: "°F"})
	assert.Equal(t, "Temperature", got.Text)
	assert.Equal(t, TierUnit, got.Tier)
	assert.Greater(t, got.Strength, 0.0)

	got = dict.Expand("P", Context{Units: "inH2O"})
	assert.Equal(t, "Pressure", got.Text)

	got = dict.Expand("P", Context{Units: "kW"})
	assert.Equal(t, "Power", got.Text)

	// No units hint, no unit tier.
	got = dict.Expand("T", Context{})
	assert.Equal(t, TierNone, got.Tier)
	assert.Equal(t, "T", got.Text)

	// Long tokens are not stems.
	got = dict.Expand("TEMPX", Context{Units: "degF"})
	assert.Equal(t, TierNone, got.Tier)

	// Equipment tier wins over unit inference.
	got = dict.Expand("T", Context{EquipmentType: "VAV", Units: "°F"})
	assert.Equal(t, TierEquipment, got.Tier)
}

func TestExpandPassthrough(t *testing.T) {
	dict := Default()
	got := dict.Expand("XQZ9", Context{EquipmentType: "AHU"})
	assert.Equal(t, Expansion{Text: "XQZ9", Tier: TierNone, Strength: 0}, got)
	assert.False(t, got.Resolved())

	var nilDict *Dictionary
	assert.Equal(t, TierNone, nilDict.Expand("ZN", Context{}).Tier)
}

func TestExpandCaseInsensitive(t *testing.T) {
	dict := Default()
	assert.Equal(t, "Zone", dict.Expand("zn", Context{}).Text)
	assert.Equal(t, "Zone", dict.Expand("Zn", Context{}).Text)
}

func TestUnitClass(t *testing.T) {
	assert.Equal(t, UnitClassTemperature, UnitClass("°F"))
	assert.Equal(t, UnitClassTemperature, UnitClass("degC"))
	assert.Equal(t, UnitClassTemperature, UnitClass("Degrees F"))
	assert.Equal(t, UnitClassAirflow, UnitClass("CFM"))
	assert.Equal(t, UnitClassHumidity, UnitClass("%RH"))
	assert.Equal(t, UnitClassPercent, UnitClass("%"))
	assert.Equal(t, "", UnitClass("furlongs"))
	assert.Equal(t, "", UnitClass(""))
}

func TestVersionStable(t *testing.T) {
	assert.Equal(t, Default().Version(), Default().Version())
	changed := DefaultBuilder().Generic("NEW", "New").Build()
	assert.NotEqual(t, Default().Version(), changed.Version())
}

func TestBuildIsolatedFromBuilder(t *testing.T) {
	b := NewBuilder().Generic("ZN", "Zone")
	dict := b.Build()
	b.Generic("ZN", "Zed")
	assert.Equal(t, "Zone", dict.Expand("ZN", Context{}).Text)
}

func TestLoadOverlay(t *testing.T) {
	data := []byte(`
generic:
  ZN: Zone Override
  XT:
    expansion: Extended
    strength: 0.7
equipment:
  vav:
    HDR: Header
vendor:
  acme:
    RT: Roof Top
units:
  temperature:
    expansion: Temperature
    stems: [TX]
`)
	path := filepath.Join(t.TempDir(), "dictionary.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	dict, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Zone Override", dict.Expand("ZN", Context{}).Text)
	xt := dict.Expand("XT", Context{})
	assert.Equal(t, "Extended", xt.Text)
	assert.InDelta(t, 0.7, xt.Strength, 1e-9)
	assert.Equal(t, "Header", dict.Expand("HDR", Context{EquipmentType: "VAV"}).Text)
	assert.Equal(t, TierVendor, dict.Expand("RT", Context{Vendor: "ACME"}).Tier)
	assert.Equal(t, TierUnit, dict.Expand("TX", Context{Units: "°C"}).Tier)
	// Built-in stems survive the overlay.
	assert.Equal(t, TierUnit, dict.Expand("TE", Context{Units: "°C"}).Tier)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = ParseOverlay([]byte("generic: [not, a, map]"))
	require.Error(t, err)

	dict, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Version(), dict.Version())
}
