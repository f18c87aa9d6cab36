package techstack

import (
	"regexp"
	"slices"
	"strings"
)

var (
	listDelimiters = regexp.MustCompile(`[,;&\n]+|\s+and\s+`)
	leadIns        = regexp.MustCompile(`^(i\s+know\s+|i\s+am\s+proficient\s+in\s+|i\s+work\s+with\s+)`)
)

// ParseAnswer turns a free-text answer to the tech stack question into
// lowercase tokens, deduplicated in order of appearance. Lists without any
// delimiter ("python go docker") are split on whitespace.
func ParseAnswer(text string) []string {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil
	}

	text = leadIns.ReplaceAllString(text, "")

	var parts []string
	if listDelimiters.MatchString(text) {
		parts = listDelimiters.Split(text, -1)
	} else {
		parts = strings.Fields(text)
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(leadIns.ReplaceAllString(strings.TrimSpace(p), ""))
		if p == "" || slices.Contains(out, p) {
			continue
		}
		out = append(out, p)
	}
	return out
}
