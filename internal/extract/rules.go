package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/spigell/talentscout/internal/candidate"
)

var (
	positionQuestionPhrases = []string{
		"what position", "which position", "what role", "which role",
		"interested in applying", "looking to apply",
	}

	nameQuestionPhrases = []string{
		"your name", "full name", "provide name", "what is your name",
		"introduce yourself", "who are you",
	}

	// nameStoplist holds technology and role words that never appear in a name.
	nameStoplist = compileWords(
		"python", "java", "javascript", "typescript", "developer", "engineer",
		"frontend", "backend", "fullstack", "machine learning", "data science",
		"devops", "cloud", "architect", "analyst", "security", "designer",
		"manager", "lead", "senior", "junior", "mid", "level", "software",
	)

	// techKeywords is matched as whole words; results keep this order.
	techKeywords = []string{
		"python", "javascript", "java", "c#", "c++", "ruby", "php", "swift", "kotlin", "go", "rust", "typescript",
		"html", "css", "react", "angular", "vue", "node", "django", "flask", "spring",
		"aws", "azure", "gcp", "docker", "kubernetes", "sql", "nosql",
		"mongodb", "postgresql", "mysql", "redis", "tensorflow", "pytorch", "machine learning",
	}
	techPatterns = compileWords(techKeywords...)

	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`(\+\d{1,3}[-.\s]?)?(\d{3}[-.\s]?\d{3}[-.\s]?\d{4}|\(\d{3}\)[-.\s]?\d{3}[-.\s]?\d{4}|\d{10})`)
	phoneJunk    = regexp.MustCompile(`[^\d+]`)

	experiencePatterns = compilePhrases("years of experience", "years experience", "year experience", "years in")

	positionLabel    = regexp.MustCompile(`(position|role|job)\s*[:\-]?\s*([a-z ]+)`)
	positionApplying = regexp.MustCompile(`(applying for|interested in)(\s+[a-z]*)?\s+([a-z ]+developer|[a-z ]+engineer|[a-z ]+designer)`)
)

// Rules is the default extraction cascade. Order is part of the contract: the
// first rule to populate a field wins and later rules for that field are skipped.
var Rules = []Rule{
	{Name: "position_question", Field: candidate.FieldPosition, Final: true, Apply: matchPositionQuestion},
	{Name: "name_direct", Field: candidate.FieldName, Apply: matchDirectName},
	{Name: "name_my_name_is", Field: candidate.FieldName, Apply: matchMyNameIs},
	{Name: "name_key_value", Field: candidate.FieldName, Apply: matchNameKeyValue},
	{Name: "email", Field: candidate.FieldEmail, Apply: matchEmail},
	{Name: "phone", Field: candidate.FieldPhone, Apply: matchPhone},
	{Name: "experience_phrase", Field: candidate.FieldExperience, Apply: matchExperiencePhrase},
	{Name: "experience_bare", Field: candidate.FieldExperience, Apply: matchBareExperience},
	{Name: "position_label", Field: candidate.FieldPosition, Apply: matchPositionLabel},
	{Name: "position_applying", Field: candidate.FieldPosition, Apply: matchPositionApplying},
	{Name: "tech_stack", Field: candidate.FieldTechStack, Apply: matchTechStack},
}

func matchPositionQuestion(m Message, out *candidate.Record) bool {
	if !containsAny(m.Lower, positionQuestionPhrases) {
		return false
	}
	out.DesiredPosition = m.Text
	return true
}

// matchDirectName takes the whole message as a name when it answers a name
// question or is a short alphabetic reply.
func matchDirectName(m Message, out *candidate.Record) bool {
	if !containsAny(m.Lower, nameQuestionPhrases) && !isShortAlphabetic(m.Text) {
		return false
	}
	if matchesAny(m.Lower, nameStoplist) {
		return false
	}
	out.Name = m.Text
	return true
}

func matchMyNameIs(m Message, out *candidate.Record) bool {
	const marker = "my name is"
	idx := strings.Index(m.Lower, marker)
	if idx == -1 {
		return false
	}
	start := idx + len(marker)
	end := len(m.Lower)
	for _, delim := range []string{".", ",", ";", "\n"} {
		if pos := strings.Index(m.Lower[start:], delim); pos != -1 && start+pos < end {
			end = start + pos
		}
	}
	name := strings.TrimSpace(m.Text[start:end])
	if name == "" {
		return false
	}
	out.Name = name
	return true
}

func matchNameKeyValue(m Message, out *candidate.Record) bool {
	const marker = "name:"
	idx := strings.Index(m.Lower, marker)
	if idx == -1 {
		return false
	}
	start := idx + len(marker)
	end := len(m.Text)
	if pos := strings.Index(m.Text[start:], "\n"); pos != -1 {
		end = start + pos
	}
	name := strings.TrimSpace(m.Text[start:end])
	if name == "" {
		return false
	}
	out.Name = name
	return true
}

func matchEmail(m Message, out *candidate.Record) bool {
	email := emailPattern.FindString(m.Text)
	if email == "" {
		return false
	}
	out.Email = strings.ToLower(email)
	return true
}

func matchPhone(m Message, out *candidate.Record) bool {
	raw := phonePattern.FindString(m.Text)
	if raw == "" {
		return false
	}
	out.Phone = phoneJunk.ReplaceAllString(raw, "")
	return true
}

func matchExperiencePhrase(m Message, out *candidate.Record) bool {
	for _, re := range experiencePatterns {
		if match := re.FindStringSubmatch(m.Lower); match != nil {
			out.Experience = match[1] + " years"
			return true
		}
	}
	return false
}

func matchBareExperience(m Message, out *candidate.Record) bool {
	if !candidate.IsNumeric(m.Text) {
		return false
	}
	out.Experience = m.Text + " years"
	return true
}

func matchPositionLabel(m Message, out *candidate.Record) bool {
	return setPosition(positionLabel.FindStringSubmatch(m.Lower), 2, out)
}

func matchPositionApplying(m Message, out *candidate.Record) bool {
	return setPosition(positionApplying.FindStringSubmatch(m.Lower), 3, out)
}

func setPosition(match []string, group int, out *candidate.Record) bool {
	if match == nil {
		return false
	}
	position := strings.TrimRight(strings.TrimSpace(match[group]), ".")
	if position == "" {
		return false
	}
	out.DesiredPosition = position
	return true
}

func matchTechStack(m Message, out *candidate.Record) bool {
	var found []string
	for i, re := range techPatterns {
		if re.MatchString(m.Lower) {
			found = append(found, techKeywords[i])
		}
	}
	if len(found) == 0 {
		return false
	}
	out.TechStack = candidate.TechStack(found)
	return true
}

func isShortAlphabetic(text string) bool {
	words := strings.Fields(text)
	if len(words) == 0 || len(words) > 3 {
		return false
	}
	for _, w := range words {
		for _, r := range w {
			if !unicode.IsLetter(r) {
				return false
			}
		}
	}
	return true
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func matchesAny(s string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// compileWords builds whole-word matchers. Boundaries are any non-word
// character so entries such as "c#" and "c++" still match.
func compileWords(words ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		out = append(out, regexp.MustCompile(`(?:^|[^\w])`+regexp.QuoteMeta(w)+`(?:$|[^\w])`))
	}
	return out
}

// compilePhrases builds one "<n> <phrase>" pattern per experience phrase.
func compilePhrases(phrases ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(phrases))
	for _, p := range phrases {
		out = append(out, regexp.MustCompile(`(\d+)\s+`+regexp.QuoteMeta(p)))
	}
	return out
}

// PlausibleName reports whether text is free of the technology and role words
// that rule out a name.
func PlausibleName(text string) bool {
	return !matchesAny(lowerASCII(text), nameStoplist)
}
