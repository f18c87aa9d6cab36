// Package questions builds the technical question request and parses the
// numbered list returned by the model.
package questions

import (
	"regexp"
	"strings"
)

var (
	// marker finds "<n>." numbering preceded by whitespace or the start of
	// the text and followed by whitespace, so "3.10" inside a question is kept.
	marker       = regexp.MustCompile(`(?:^|\s)(\d+\.)(?:\s|$)`)
	lineMarker   = regexp.MustCompile(`^\d+\.`)
	titled       = regexp.MustCompile(`^\d+\.\s*\*\*(.+?)\*\*`)
	numberPrefix = regexp.MustCompile(`^\d+\.\s*`)
)

// Parse extracts plain question strings from a model completion. The result
// may hold fewer or more questions than requested.
func Parse(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	blocks := splitOnMarkers(raw)
	if len(blocks) == 0 {
		blocks = splitOnLines(raw)
	}

	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if q := clean(b); q != "" {
			out = append(out, q)
		}
	}
	return out
}

// Lines treats every non-empty line as one question.
func Lines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// splitOnMarkers joins every numbering marker with the text that follows it
// up to the next marker. Text before the first marker is dropped.
func splitOnMarkers(raw string) []string {
	found := marker.FindAllStringSubmatchIndex(raw, -1)
	blocks := make([]string, 0, len(found))
	for i, loc := range found {
		start, end := loc[2], loc[3]
		next := len(raw)
		if i+1 < len(found) {
			next = found[i+1][2]
		}
		body := strings.TrimSpace(raw[end:next])
		blocks = append(blocks, raw[start:end]+" "+body)
	}
	return blocks
}

func splitOnLines(raw string) []string {
	var (
		blocks  []string
		current string
	)
	for _, line := range Lines(raw) {
		switch {
		case lineMarker.MatchString(line):
			if current != "" {
				blocks = append(blocks, current)
			}
			current = line
		case current != "":
			current += " " + line
		}
	}
	if current != "" {
		blocks = append(blocks, current)
	}
	return blocks
}

// clean keeps the bold title of "<n>. **title** (note)" and drops the note;
// otherwise it strips the numbering.
func clean(block string) string {
	block = strings.TrimSpace(block)
	if m := titled.FindStringSubmatch(block); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(numberPrefix.ReplaceAllString(block, ""))
}
