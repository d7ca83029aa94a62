package application

import (
	"sort"
	"strings"

	masterdata "bacnet-commissioning/internal/masterdata/domain"
	matching "bacnet-commissioning/internal/matching/domain"
	"bacnet-commissioning/internal/matching/similarity"
)

const (
	// DefaultSuggestionThreshold is the minimum score for a fuzzy suggestion.
	DefaultSuggestionThreshold = 0.6
	// DefaultTypeBonus is added when source and target types agree.
	DefaultTypeBonus = 0.2
)

// AutoMapper suggests equipment pairings across the two inventories.
//
// Suggestions are greedy per source: every source independently takes its
// best target, so one target can be suggested for several sources. There is
// no global assignment pass.
type AutoMapper struct {
	threshold float64
	typeBonus float64
}

// AutoMapperOption configures an AutoMapper.
type AutoMapperOption func(*AutoMapper)

// WithSuggestionThreshold overrides the minimum suggestion score.
func WithSuggestionThreshold(threshold float64) AutoMapperOption {
	return func(m *AutoMapper) {
		if threshold >= 0 && threshold <= 1 {
			m.threshold = threshold
		}
	}
}

// WithTypeBonus overrides the matching-type bonus.
func WithTypeBonus(bonus float64) AutoMapperOption {
	return func(m *AutoMapper) {
		if bonus >= 0 && bonus <= 1 {
			m.typeBonus = bonus
		}
	}
}

// NewAutoMapper constructs an AutoMapper.
func NewAutoMapper(opts ...AutoMapperOption) *AutoMapper {
	m := &AutoMapper{threshold: DefaultSuggestionThreshold, typeBonus: DefaultTypeBonus}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Score is the pairing confidence of one source and target.
func (m *AutoMapper) Score(source, target masterdata.Equipment) float64 {
	score := similarity.Score(source.Name, target.Name)
	if source.Type != "" && strings.EqualFold(source.Type, target.Type) {
		score += m.typeBonus
	}
	if score > 1 {
		score = 1
	}
	return score
}

// Suggest pairs every unmapped source with its best unmapped target when the
// score reaches the threshold. Results are sorted by confidence, highest first.
func (m *AutoMapper) Suggest(sources, targets []masterdata.Equipment, existing []matching.EquipmentMapping) []matching.BulkMappingPair {
	sources, targets = unmapped(sources, targets, existing)
	pairs := make([]matching.BulkMappingPair, 0, len(sources))
	for _, source := range sources {
		best, bestScore := -1, 0.0
		for j, target := range targets {
			score := m.Score(source, target)
			if score > bestScore {
				best, bestScore = j, score
			}
		}
		if best < 0 || bestScore < m.threshold {
			continue
		}
		pairs = append(pairs, pair(source, targets[best], bestScore))
	}
	sortPairs(pairs)
	return pairs
}

// ExactMatches flags every unmapped source whose name equals an unmapped
// target's name, ignoring case and surrounding space.
func (m *AutoMapper) ExactMatches(sources, targets []masterdata.Equipment, existing []matching.EquipmentMapping) []matching.BulkMappingPair {
	sources, targets = unmapped(sources, targets, existing)
	pairs := make([]matching.BulkMappingPair, 0)
	for _, source := range sources {
		name := strings.TrimSpace(source.Name)
		if name == "" {
			continue
		}
		for _, target := range targets {
			if strings.EqualFold(name, strings.TrimSpace(target.Name)) {
				pairs = append(pairs, pair(source, target, 1))
				break
			}
		}
	}
	sortPairs(pairs)
	return pairs
}

func pair(source, target masterdata.Equipment, confidence float64) matching.BulkMappingPair {
	return matching.BulkMappingPair{
		SourceID:   source.ID,
		SourceName: source.Name,
		TargetID:   target.ID,
		TargetName: target.Name,
		Confidence: confidence,
	}
}

func unmapped(sources, targets []masterdata.Equipment, existing []matching.EquipmentMapping) ([]masterdata.Equipment, []masterdata.Equipment) {
	if len(existing) == 0 {
		return sources, targets
	}
	mappedSources := make(map[string]struct{}, len(existing))
	mappedTargets := make(map[string]struct{}, len(existing))
	for _, mapping := range existing {
		mappedSources[mapping.SourceID] = struct{}{}
		mappedTargets[mapping.TargetID] = struct{}{}
	}
	freeSources := make([]masterdata.Equipment, 0, len(sources))
	for _, source := range sources {
		if _, ok := mappedSources[source.ID]; !ok {
			freeSources = append(freeSources, source)
		}
	}
	freeTargets := make([]masterdata.Equipment, 0, len(targets))
	for _, target := range targets {
		if _, ok := mappedTargets[target.ID]; !ok {
			freeTargets = append(freeTargets, target)
		}
	}
	return freeSources, freeTargets
}

func sortPairs(pairs []matching.BulkMappingPair) {
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].Confidence != pairs[j].Confidence {
			return pairs[i].Confidence > pairs[j].Confidence
		}
		return pairs[i].SourceID < pairs[j].SourceID
	})
}
