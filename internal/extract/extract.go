// Package extract pulls candidate attributes out of free-text chat messages
// with keyword and pattern heuristics.
package extract

import (
	"strings"

	"github.com/spigell/talentscout/internal/candidate"
)

// Message is a single chat turn prepared for matching.
type Message struct {
	// Text is the trimmed original input.
	Text string
	// Lower is Text with ASCII letters lowercased; byte offsets match Text.
	Lower string
}

// NewMessage prepares raw input for the rules.
func NewMessage(raw string) Message {
	text := strings.TrimSpace(raw)
	return Message{Text: text, Lower: lowerASCII(text)}
}

// Rule extracts one field from a message. Apply writes the field into out and
// reports whether it matched.
type Rule struct {
	Name  string
	Field candidate.Field
	Apply func(m Message, out *candidate.Record) bool
	// Final stops extraction for the message once the rule matched.
	Final bool
}

// Result is the partial record produced from one message.
type Result struct {
	Record candidate.Record
	// Matched lists the names of the rules that populated a field.
	Matched []string
}

// Extractor runs an ordered rule cascade. It holds no state between calls.
type Extractor struct {
	rules []Rule
}

// New creates an extractor. With no rules the default cascade is used.
func New(rules ...Rule) *Extractor {
	if len(rules) == 0 {
		rules = Rules
	}
	return &Extractor{rules: rules}
}

// Extract applies the rules to one message. Fields are independent: several
// may be populated from the same text, each by its first matching rule.
func (e *Extractor) Extract(raw string) Result {
	var res Result
	msg := NewMessage(raw)
	if msg.Text == "" {
		return res
	}

	for _, rule := range e.rules {
		if res.Record.Has(rule.Field) {
			continue
		}
		if !rule.Apply(msg, &res.Record) {
			continue
		}
		res.Matched = append(res.Matched, rule.Name)
		if rule.Final {
			break
		}
	}

	return res
}

// Extract runs the default cascade.
func Extract(raw string) candidate.Record {
	return New().Extract(raw).Record
}

func lowerASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}
