// Package normalizer turns cryptic BACnet point names into readable, tagged names.
package normalizer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"bacnet-commissioning/internal/semantic/dictionary"
	semantic "bacnet-commissioning/internal/semantic/domain"
	"bacnet-commissioning/internal/semantic/tokenizer"
)

// MethodNumeric marks names made only of numeric tokens.
const MethodNumeric = "numeric"

var tierWeights = map[dictionary.Tier]float64{
	dictionary.TierVendor:    1.0,
	dictionary.TierEquipment: 1.0,
	dictionary.TierGeneric:   0.9,
	dictionary.TierUnit:      0.7,
	dictionary.TierNone:      0,
}

// Normalizer is stateless apart from its read-only dictionary and rule table.
type Normalizer struct {
	dict  *dictionary.Dictionary
	rules []Rule
}

// Option customizes a Normalizer.
type Option func(*Normalizer)

// WithRules replaces the classification rule table.
func WithRules(rules []Rule) Option {
	return func(n *Normalizer) {
		if len(rules) > 0 {
			n.rules = rules
		}
	}
}

// New constructs a Normalizer. A nil dictionary selects the built-in one.
func New(dict *dictionary.Dictionary, opts ...Option) *Normalizer {
	if dict == nil {
		dict = dictionary.Default()
	}
	n := &Normalizer{dict: dict, rules: DefaultRules()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Dictionary returns the dictionary in use.
func (n *Normalizer) Dictionary() *dictionary.Dictionary {
	return n.dict
}

type expandedToken struct {
	text     string
	tier     dictionary.Tier
	strength float64
	numeric  bool
	expanded bool
}

// Normalize derives a NormalizedPoint from point. It never fails: malformed or
// unresolvable names come back as low-confidence passthroughs flagged for review.
func (n *Normalizer) Normalize(point semantic.RawPoint, ctx dictionary.Context) semantic.NormalizedPoint {
	if ctx.Units == "" {
		ctx.Units = point.Units
	}

	tokens := n.expand(point.OriginalName, ctx)
	name := joinTokens(tokens)
	if name == "" {
		name = point.OriginalName
	}
	confidence, method := score(tokens)

	description := name
	var descriptionTokens []expandedToken
	if strings.TrimSpace(point.OriginalDescription) != "" {
		descriptionTokens = n.expand(point.OriginalDescription, ctx)
		description = joinTokens(descriptionTokens)
	}

	words := wordSet(tokens)
	function, category, matched := classify(words, n.rules)
	if !matched && len(descriptionTokens) > 0 {
		words = wordSet(descriptionTokens)
		function, category, matched = classify(words, n.rules)
	}
	if !matched {
		category = categoryForObject(point.ObjectType)
	}

	return semantic.NormalizedPoint{
		OriginalName:         point.OriginalName,
		NormalizedName:       name,
		ExpandedDescription:  description,
		PointFunction:        function,
		Category:             category,
		HaystackTags:         deriveTags(words, category, point.ObjectType),
		Confidence:           confidence,
		ConfidenceLevel:      semantic.LevelFor(confidence),
		NormalizationMethod:  method,
		RequiresManualReview: confidence < semantic.ManualReviewThreshold,
	}
}

// expand resolves tokens against the dictionary. A letter token followed by a
// numeric token is first looked up joined, so keys like "CO2" survive the
// tokenizer's letter/digit split.
func (n *Normalizer) expand(raw string, ctx dictionary.Context) []expandedToken {
	tokens := tokenizer.Tokenize(raw)
	result := make([]expandedToken, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		if tokenizer.IsNumeric(token) {
			result = append(result, expandedToken{text: token, tier: dictionary.TierNone, numeric: true})
			continue
		}
		if i+1 < len(tokens) && tokenizer.IsNumeric(tokens[i+1]) {
			if joined := n.dict.Expand(token+tokens[i+1], ctx); joined.Resolved() {
				result = append(result, resolvedToken(joined))
				i++
				continue
			}
		}
		exp := n.dict.Expand(token, ctx)
		if exp.Resolved() {
			result = append(result, resolvedToken(exp))
			continue
		}
		result = append(result, expandedToken{text: exp.Text, tier: exp.Tier, strength: exp.Strength})
	}
	return result
}

func resolvedToken(exp dictionary.Expansion) expandedToken {
	return expandedToken{
		text:     titleCase(exp.Text),
		tier:     exp.Tier,
		strength: exp.Strength,
		expanded: true,
	}
}

// score weights each token's strength by its tier. Numeric tokens are neutral;
// unresolved tokens count toward the denominator with zero strength.
func score(tokens []expandedToken) (float64, string) {
	if len(tokens) == 0 {
		return 0, string(dictionary.TierNone)
	}
	var (
		total    float64
		counted  int
		bestTier = dictionary.TierNone
	)
	for _, token := range tokens {
		if token.numeric {
			continue
		}
		counted++
		total += token.strength * tierWeights[token.tier]
		if token.tier.Rank() > bestTier.Rank() {
			bestTier = token.tier
		}
	}
	if counted == 0 {
		return 1, MethodNumeric
	}
	confidence := total / float64(counted)
	if confidence > 1 {
		confidence = 1
	}
	return confidence, string(bestTier)
}

func joinTokens(tokens []expandedToken) string {
	parts := make([]string, 0, len(tokens))
	for _, token := range tokens {
		parts = append(parts, token.text)
	}
	return strings.Join(parts, " ")
}

func wordSet(tokens []expandedToken) map[string]struct{} {
	words := make(map[string]struct{}, len(tokens)*2)
	for _, token := range tokens {
		if token.numeric {
			continue
		}
		for _, word := range strings.Fields(strings.ToLower(token.text)) {
			words[word] = struct{}{}
		}
	}
	return words
}

// titleCase upper-cases the first rune of every word and leaves the rest as
// written, so dictionary acronyms like "CO2" survive.
func titleCase(value string) string {
	words := strings.Fields(value)
	for i, word := range words {
		r, size := utf8.DecodeRuneInString(word)
		if r == utf8.RuneError {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + word[size:]
	}
	return strings.Join(words, " ")
}
