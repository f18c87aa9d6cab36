// Package techstack checks declared technology stacks against a known vocabulary.
package techstack

import (
	"regexp"
	"strings"
)

// MinRecognizedRatio is the share of tokens that must be recognized.
const MinRecognizedRatio = 0.25

var separators = regexp.MustCompile(`[,;/|]+`)

// Result describes the outcome of a validation.
type Result struct {
	Valid      bool
	Tokens     []string
	Recognized []string
}

// Ratio is the recognized share of all tokens.
func (r Result) Ratio() float64 {
	if len(r.Tokens) == 0 {
		return 0
	}
	return float64(len(r.Recognized)) / float64(len(r.Tokens))
}

// Validate splits a delimited stack on , ; / | and validates the tokens.
func Validate(input string) Result {
	return ValidateTokens(separators.Split(strings.ToLower(input), -1))
}

// ValidateTokens reports whether enough tokens name known technologies.
// A token is recognized when it equals a vocabulary entry or contains one.
func ValidateTokens(tokens []string) Result {
	var res Result
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		res.Tokens = append(res.Tokens, t)
		if Recognized(t) {
			res.Recognized = append(res.Recognized, t)
		}
	}

	res.Valid = len(res.Recognized) > 0 && res.Ratio() >= MinRecognizedRatio
	return res
}

// Recognized reports whether a single lowercase token names a known technology.
func Recognized(token string) bool {
	for _, known := range Reference {
		if token == known {
			return true
		}
		if len(known) >= minSubstringLen && strings.Contains(token, known) {
			return true
		}
	}
	return false
}
