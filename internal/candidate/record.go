package candidate

import (
	"fmt"
	"slices"
	"strings"
)

// Record is the structured information collected about a candidate.
type Record struct {
	Name            string    `json:"name" mapstructure:"name"`
	Email           string    `json:"email" mapstructure:"email"`
	Phone           string    `json:"phone" mapstructure:"phone"`
	Experience      string    `json:"experience" mapstructure:"experience"`
	DesiredPosition string    `json:"desired_position" mapstructure:"desired_position"`
	Location        string    `json:"location" mapstructure:"location"`
	TechStack       TechStack `json:"tech_stack" mapstructure:"tech_stack"`
}

// Get returns the textual value of a field. The tech stack is joined with commas.
func (r *Record) Get(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldEmail:
		return r.Email
	case FieldPhone:
		return r.Phone
	case FieldExperience:
		return r.Experience
	case FieldPosition:
		return r.DesiredPosition
	case FieldLocation:
		return r.Location
	case FieldTechStack:
		return r.TechStack.String()
	default:
		return ""
	}
}

// Set stores a textual value. Setting the tech stack parses a comma separated list.
func (r *Record) Set(f Field, value string) {
	switch f {
	case FieldName:
		r.Name = value
	case FieldEmail:
		r.Email = value
	case FieldPhone:
		r.Phone = value
	case FieldExperience:
		r.Experience = value
	case FieldPosition:
		r.DesiredPosition = value
	case FieldLocation:
		r.Location = value
	case FieldTechStack:
		r.TechStack = NewTechStack(strings.Split(value, ",")...)
	}
}

// Has reports whether the field holds a non-empty value.
func (r *Record) Has(f Field) bool {
	if f == FieldTechStack {
		return r.TechStack.Len() > 0
	}
	return strings.TrimSpace(r.Get(f)) != ""
}

// Complete reports whether every required field is populated.
func (r *Record) Complete() bool {
	for _, f := range Fields {
		if !r.Has(f) {
			return false
		}
	}
	return true
}

// Summary renders the populated fields one per line for confirmation.
func (r *Record) Summary() string {
	lines := make([]string, 0, len(Fields))
	for _, f := range Fields {
		if !r.Has(f) {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", f.Label(), r.Get(f)))
	}
	return strings.Join(lines, "\n")
}

// TechStack is a set of lowercase technology tokens kept in sorted order.
type TechStack []string

// NewTechStack normalizes and deduplicates the provided tokens.
func NewTechStack(tokens ...string) TechStack {
	var ts TechStack
	return ts.Union(tokens)
}

// Union returns a new set holding the tokens of both sides.
func (ts TechStack) Union(tokens []string) TechStack {
	out := make(TechStack, 0, len(ts)+len(tokens))
	for _, t := range append(slices.Clone([]string(ts)), tokens...) {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

func (ts TechStack) Contains(token string) bool {
	return slices.Contains(ts, strings.ToLower(strings.TrimSpace(token)))
}

func (ts TechStack) Len() int { return len(ts) }

func (ts TechStack) String() string { return strings.Join(ts, ", ") }
