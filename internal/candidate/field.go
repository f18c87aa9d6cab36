package candidate

import (
	"strings"

	"github.com/spigell/talentscout/internal/techstack"
)

// Field identifies one piece of candidate information collected by the interview.
type Field int

const (
	FieldName Field = iota
	FieldEmail
	FieldPhone
	FieldExperience
	FieldPosition
	FieldLocation
	FieldTechStack
)

// Fields lists the required fields in the order they are collected.
var Fields = []Field{
	FieldName,
	FieldEmail,
	FieldPhone,
	FieldExperience,
	FieldPosition,
	FieldLocation,
	FieldTechStack,
}

type fieldDef struct {
	key     string
	label   string
	prompt  string
	invalid string
	// validate is nil for fields that accept any non-empty answer.
	validate func(string) bool
}

var defs = map[Field]fieldDef{
	FieldName: {
		key:    "name",
		label:  "Name",
		prompt: "Let's start the screening process. Could you please provide your full name?",
	},
	FieldEmail: {
		key:      "email",
		label:    "Email",
		prompt:   "Thank you. Now, could you please share your email address?",
		invalid:  "That doesn't appear to be a valid email address. Please provide a valid email.",
		validate: IsValidEmail,
	},
	FieldPhone: {
		key:      "phone",
		label:    "Phone",
		prompt:   "Great! Could you provide your phone number?",
		invalid:  "That doesn't appear to be a valid phone number. Please provide a valid phone number.",
		validate: IsValidPhone,
	},
	FieldExperience: {
		key:    "experience",
		label:  "Experience",
		prompt: "How many years of professional experience do you have?",
	},
	FieldPosition: {
		key:    "desired_position",
		label:  "Desired Position",
		prompt: "What position(s) are you interested in applying for?",
	},
	FieldLocation: {
		key:    "location",
		label:  "Location",
		prompt: "What is your current location?",
	},
	FieldTechStack: {
		key:    "tech_stack",
		label:  "Tech Stack",
		prompt: "Please list the technologies you're proficient in, including programming languages, frameworks, databases, and tools.",
	},
}

func (f Field) String() string { return defs[f].key }

// Label is the human readable name used in summaries.
func (f Field) Label() string { return defs[f].label }

// Prompt is the question asked while the field is being collected.
func (f Field) Prompt() string { return defs[f].prompt }

// InvalidPrompt is the re-prompt shown when Accepts rejects an answer.
func (f Field) InvalidPrompt() string {
	if msg := defs[f].invalid; msg != "" {
		return msg
	}
	return "I didn't catch that. " + f.Prompt()
}

// Accepts reports whether answer may be stored for the field. Only email and
// phone have hard validation; the rest take any non-empty text.
func (f Field) Accepts(answer string) bool {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return false
	}
	if v := defs[f].validate; v != nil {
		return v(answer)
	}
	return true
}

// Next returns the field collected after f, or false when f is the last one.
func (f Field) Next() (Field, bool) {
	for i, field := range Fields {
		if field == f && i+1 < len(Fields) {
			return Fields[i+1], true
		}
	}
	return f, false
}

// Answer converts a direct answer to the field's question into a partial record.
func (f Field) Answer(text string) Record {
	text = strings.TrimSpace(text)
	var r Record
	switch f {
	case FieldEmail:
		r.Email = strings.ToLower(text)
	case FieldPhone:
		r.Phone = Digits(text)
	case FieldExperience:
		if IsNumeric(text) {
			text += " years"
		}
		r.Experience = text
	case FieldTechStack:
		r.TechStack = NewTechStack(techstack.ParseAnswer(text)...)
	default:
		r.Set(f, text)
	}
	return r
}
