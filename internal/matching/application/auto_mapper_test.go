package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	masterdata "bacnet-commissioning/internal/masterdata/domain"
	matching "bacnet-commissioning/internal/matching/domain"
)

func eq(id, name, typ string) masterdata.Equipment {
	return masterdata.Equipment{ID: id, Name: name, Type: typ}
}

func TestSuggestTypeBonusCapped(t *testing.T) {
	pairs := NewAutoMapper().Suggest(
		[]masterdata.Equipment{eq("s1", "AHU-1", "AHU")},
		[]masterdata.Equipment{eq("t1", "AHU 1", "AHU")},
		nil,
	)
	require.Len(t, pairs, 1)
	assert.Equal(t, "t1", pairs[0].TargetID)
	assert.Equal(t, 1.0, pairs[0].Confidence)
	assert.False(t, pairs[0].IsManual)
}

func TestSuggestTypeBonusLiftsOverThreshold(t *testing.T) {
	sources := []masterdata.Equipment{eq("s1", "VAVBOX", "VAV")}
	// "VAV" is contained in "VAVBOX": 3/6 = 0.5, below 0.6 without the bonus.
	withType := NewAutoMapper().Suggest(sources, []masterdata.Equipment{eq("t1", "VAV", "vav")}, nil)
	require.Len(t, withType, 1)
	assert.InDelta(t, 0.7, withType[0].Confidence, 1e-9)

	withoutType := NewAutoMapper().Suggest(sources, []masterdata.Equipment{eq("t1", "VAV", "FCU")}, nil)
	assert.Empty(t, withoutType)
}

func TestSuggestGreedyTargetSharedBySources(t *testing.T) {
	// Documented behaviour: both sources pick the same best target.
	pairs := NewAutoMapper().Suggest(
		[]masterdata.Equipment{eq("s1", "AHU-1", "AHU"), eq("s2", "AHU-1A", "AHU")},
		[]masterdata.Equipment{eq("t1", "AHU 1", "AHU"), eq("t2", "Boiler", "BOILER")},
		nil,
	)
	require.Len(t, pairs, 2)
	assert.Equal(t, "t1", pairs[0].TargetID)
	assert.Equal(t, "t1", pairs[1].TargetID)
	assert.Equal(t, "s1", pairs[0].SourceID)
	assert.GreaterOrEqual(t, pairs[0].Confidence, pairs[1].Confidence)
}

func TestSuggestSkipsExistingMappings(t *testing.T) {
	existing := []matching.EquipmentMapping{{SourceID: "s1", TargetID: "t1", MappingType: matching.MappingManual, Confidence: 1}}
	pairs := NewAutoMapper().Suggest(
		[]masterdata.Equipment{eq("s1", "AHU-1", "AHU"), eq("s2", "AHU-2", "AHU")},
		[]masterdata.Equipment{eq("t1", "AHU-2", "AHU"), eq("t2", "AHU 2", "AHU")},
		existing,
	)
	require.Len(t, pairs, 1)
	assert.Equal(t, "s2", pairs[0].SourceID)
	assert.Equal(t, "t2", pairs[0].TargetID)
}

func TestSuggestSortedByConfidence(t *testing.T) {
	pairs := NewAutoMapper(WithTypeBonus(0)).Suggest(
		[]masterdata.Equipment{eq("a", "ZNTSP", ""), eq("b", "FCU-9", "")},
		[]masterdata.Equipment{eq("t1", "ZNT", ""), eq("t2", "FCU9", "")},
		nil,
	)
	require.Len(t, pairs, 2)
	assert.Equal(t, "b", pairs[0].SourceID)
	assert.Equal(t, 1.0, pairs[0].Confidence)
	assert.Equal(t, "a", pairs[1].SourceID)
	assert.InDelta(t, 0.6, pairs[1].Confidence, 1e-9)
}

func TestExactMatches(t *testing.T) {
	pairs := NewAutoMapper().ExactMatches(
		[]masterdata.Equipment{eq("s1", "AHU-1", "AHU"), eq("s2", "VAV-7", "VAV"), eq("s3", "", "")},
		[]masterdata.Equipment{eq("t1", " ahu-1 ", ""), eq("t2", "VAV 7", "VAV")},
		nil,
	)
	require.Len(t, pairs, 1)
	assert.Equal(t, matching.BulkMappingPair{SourceID: "s1", SourceName: "AHU-1", TargetID: "t1", TargetName: " ahu-1 ", Confidence: 1}, pairs[0])
}

func TestSuggestCustomThreshold(t *testing.T) {
	mapper := NewAutoMapper(WithSuggestionThreshold(0.9), WithTypeBonus(0))
	pairs := mapper.Suggest(
		[]masterdata.Equipment{eq("s1", "ZNTSP", "")},
		[]masterdata.Equipment{eq("t1", "ZNT", "")},
		nil,
	)
	assert.Empty(t, pairs)
}
