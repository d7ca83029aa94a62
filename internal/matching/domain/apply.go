package matching

import (
	"strings"
	"time"

	masterdata "bacnet-commissioning/internal/masterdata/domain"
	"bacnet-commissioning/internal/matching/similarity"
)

// DefaultConfidenceThreshold is the product default for fuzzy acceptance.
const DefaultConfidenceThreshold = 0.7

// ApplyOptions controls one template application.
type ApplyOptions struct {
	Facet               Facet   `json:"matching_facet"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	AllowPartialMatches bool    `json:"allow_partial_matches"`
	CopyNavName         bool    `json:"copy_nav_name"`
	CopyUnits           bool    `json:"copy_units"`
}

// DefaultApplyOptions returns the product defaults.
func DefaultApplyOptions() ApplyOptions {
	return ApplyOptions{
		Facet:               FacetDisplayName,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		AllowPartialMatches: true,
		CopyNavName:         true,
		CopyUnits:           true,
	}
}

// Validate checks the options.
func (o ApplyOptions) Validate() error {
	if !o.Facet.IsValid() {
		return ErrInvalidFacet
	}
	if o.ConfidenceThreshold < 0 || o.ConfidenceThreshold > 1 {
		return ErrInvalidThreshold
	}
	return nil
}

// AppliedPoint is one template row matched onto a target point.
type AppliedPoint struct {
	TemplatePointID string  `json:"template_point_id"`
	TargetPointID   string  `json:"target_point_id"`
	TemplateValue   string  `json:"template_value"`
	TargetValue     string  `json:"target_value"`
	NavName         string  `json:"nav_name"`
	Units           string  `json:"units"`
	Confidence      float64 `json:"confidence"`
	Exact           bool    `json:"exact"`
}

// TemplateApplication records one attempt to apply a template.
type TemplateApplication struct {
	ID                string         `json:"id"`
	TemplateID        string         `json:"template_id"`
	TargetEquipmentID string         `json:"target_equipment_id"`
	Options           ApplyOptions   `json:"options"`
	Matched           []AppliedPoint `json:"matched"`
	Unmatched         []string       `json:"unmatched"`
	MatchedCount      int            `json:"matched_count"`
	UnmatchedCount    int            `json:"unmatched_count"`
	AverageConfidence float64        `json:"average_confidence"`
	IsSuccessful      bool           `json:"is_successful"`
	CreatedAt         time.Time      `json:"created_at"`
}

// Apply matches each template row onto targetPoints independently. An exact
// facet match is taken immediately; otherwise, when partial matches are
// allowed, the row takes its best fuzzy candidate at or above the threshold.
// Ties keep the earlier target point. Matched rows are reported in template
// order.
func Apply(template MappingTemplate, targetPoints []masterdata.Point, opts ApplyOptions) TemplateApplication {
	rows := template.PointMappings
	matches := make([]*AppliedPoint, len(rows))

	targetValues := make([]string, len(targetPoints))
	for i, point := range targetPoints {
		targetValues[i] = facetValue(point, opts.Facet)
	}

	for i, row := range rows {
		value := row.Value(opts.Facet)
		if value == "" {
			continue
		}
		if j := exactIndex(value, targetValues); j >= 0 {
			matches[i] = applied(row, targetPoints[j], value, targetValues[j], 1, true, opts)
			continue
		}
		if !opts.AllowPartialMatches {
			continue
		}
		best, bestScore := -1, 0.0
		for j, candidate := range targetValues {
			score := similarity.Score(value, candidate)
			if score > bestScore {
				best, bestScore = j, score
			}
		}
		if best < 0 || bestScore < opts.ConfidenceThreshold {
			continue
		}
		matches[i] = applied(row, targetPoints[best], value, targetValues[best], bestScore, false, opts)
	}

	application := TemplateApplication{
		TemplateID: template.ID,
		Options:    opts,
		Matched:    make([]AppliedPoint, 0, len(rows)),
		Unmatched:  make([]string, 0),
	}
	var total float64
	for i, match := range matches {
		if match == nil {
			application.Unmatched = append(application.Unmatched, rows[i].TemplatePointID)
			continue
		}
		application.Matched = append(application.Matched, *match)
		total += match.Confidence
	}
	application.MatchedCount = len(application.Matched)
	application.UnmatchedCount = len(application.Unmatched)
	if application.MatchedCount > 0 {
		application.AverageConfidence = total / float64(application.MatchedCount)
	}
	application.IsSuccessful = application.MatchedCount > 0 &&
		application.AverageConfidence >= opts.ConfidenceThreshold
	return application
}

func exactIndex(value string, candidates []string) int {
	for j, candidate := range candidates {
		if strings.EqualFold(value, candidate) {
			return j
		}
	}
	return -1
}

func applied(row PointMapping, target masterdata.Point, value, candidate string, confidence float64, exact bool, opts ApplyOptions) *AppliedPoint {
	result := &AppliedPoint{
		TemplatePointID: row.TemplatePointID,
		TargetPointID:   target.ID,
		TemplateValue:   value,
		TargetValue:     candidate,
		NavName:         target.NavName,
		Units:           target.Raw.Units,
		Confidence:      confidence,
		Exact:           exact,
	}
	if opts.CopyNavName {
		result.NavName = row.NavName
	}
	if opts.CopyUnits {
		result.Units = row.Units
	}
	return result
}

func facetValue(point masterdata.Point, facet Facet) string {
	switch facet {
	case FacetObjectReference:
		return point.CurRef()
	case FacetDescription:
		return point.Description()
	default:
		return point.DisplayName()
	}
}
