package normalizer

import (
	"sort"

	semantic "bacnet-commissioning/internal/semantic/domain"
)

// Haystack marker tags.
const (
	TagPoint    = "point"
	TagSensor   = "sensor"
	TagCmd      = "cmd"
	TagSp       = "sp"
	TagWritable = "writable"
)

var wordMarkers = map[string][]string{
	"temperature": {"temp"},
	"temp":        {"temp"},
	"humidity":    {"humidity"},
	"pressure":    {"pressure"},
	"static":      {"pressure"},
	"flow":        {"flow"},
	"airflow":     {"air", "flow"},
	"power":       {"power"},
	"energy":      {"energy"},
	"co2":         {"co2"},
	"air":         {"air"},
	"water":       {"water"},
	"chilled":     {"chilled"},
	"hot":         {"hot"},
	"condenser":   {"condenser"},
	"zone":        {"zone"},
	"room":        {"space"},
	"space":       {"space"},
	"discharge":   {"discharge"},
	"supply":      {"supply"},
	"return":      {"return"},
	"outside":     {"outside"},
	"mixed":       {"mixed"},
	"exhaust":     {"exhaust"},
	"damper":      {"damper"},
	"valve":       {"valve"},
	"fan":         {"fan"},
	"pump":        {"pump"},
	"speed":       {"speed"},
	"occupancy":   {"occ"},
	"occupied":    {"occ"},
	"alarm":       {"alarm"},
	"enable":      {"enable"},
	"run":         {"run"},
	"heating":     {"heating"},
	"cooling":     {"cooling"},
	"effective":   {"effective"},
}

var categoryMarkers = map[semantic.Category]string{
	semantic.CategorySensor:   TagSensor,
	semantic.CategoryStatus:   TagSensor,
	semantic.CategoryCommand:  TagCmd,
	semantic.CategorySetpoint: TagSp,
}

// deriveTags returns a sorted, de-duplicated marker set.
func deriveTags(words map[string]struct{}, category semantic.Category, objectType semantic.ObjectType) []string {
	set := map[string]struct{}{TagPoint: {}}
	if marker, ok := categoryMarkers[category]; ok {
		set[marker] = struct{}{}
	}
	for word := range words {
		for _, marker := range wordMarkers[word] {
			set[marker] = struct{}{}
		}
	}
	if objectType.IsOutput() || objectType.IsValue() {
		set[TagWritable] = struct{}{}
	}

	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
