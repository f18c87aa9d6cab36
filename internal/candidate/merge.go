package candidate

import "strings"

// Merge folds a partial extraction into dst without destroying stored data:
//   - the tech stack only grows (set union);
//   - a stored name is replaced only by one with strictly more words;
//   - every other field is overwritten only by a non-empty value.
//
// Phones are stored digits-only.
func Merge(dst *Record, partial Record) {
	if partial.TechStack.Len() > 0 {
		dst.TechStack = dst.TechStack.Union(partial.TechStack)
	}

	if name := strings.TrimSpace(partial.Name); name != "" {
		if dst.Name == "" || wordCount(name) > wordCount(dst.Name) {
			dst.Name = name
		}
	}

	if phone := Digits(partial.Phone); phone != "" {
		dst.Phone = phone
	}

	for _, f := range []Field{FieldEmail, FieldExperience, FieldPosition, FieldLocation} {
		if v := strings.TrimSpace(partial.Get(f)); v != "" {
			dst.Set(f, v)
		}
	}
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
