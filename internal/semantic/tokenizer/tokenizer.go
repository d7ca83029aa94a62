// Package tokenizer splits raw BACnet point names into ordered tokens.
package tokenizer

import "unicode"

type runeClass int

const (
	classDelimiter runeClass = iota
	classLower
	classUpper
	classDigit
)

func classify(r rune) runeClass {
	switch {
	case unicode.IsDigit(r):
		return classDigit
	case unicode.IsLower(r):
		return classLower
	case unicode.IsLetter(r):
		// Uncased letters behave like upper case: they never open a camel boundary.
		return classUpper
	default:
		return classDelimiter
	}
}

// Tokenize splits name on delimiters, letter/digit boundaries and lower→upper
// camel-case boundaries. Runs of digits stay whole. The result is never nil.
func Tokenize(name string) []string {
	tokens := make([]string, 0, 4)
	current := make([]rune, 0, len(name))
	prev := classDelimiter

	flush := func() {
		if len(current) > 0 {
			tokens = append(tokens, string(current))
			current = current[:0]
		}
	}

	for _, r := range name {
		class := classify(r)
		if class == classDelimiter {
			flush()
			prev = classDelimiter
			continue
		}
		if boundary(prev, class) {
			flush()
		}
		current = append(current, r)
		prev = class
	}
	flush()
	return tokens
}

func boundary(prev, next runeClass) bool {
	switch {
	case prev == classDelimiter:
		return false
	case prev == classDigit && next != classDigit:
		return true
	case prev != classDigit && next == classDigit:
		return true
	case prev == classLower && next == classUpper:
		return true
	}
	return false
}

// IsNumeric reports whether token consists only of digits.
func IsNumeric(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
