package questions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "bold titles with notes",
			input: "1. **What is a closure?** (tests fundamentals)\n2. **Explain goroutines** (tests concurrency)",
			want:  []string{"What is a closure?", "Explain goroutines"},
		},
		{
			name: "preamble and plain numbering",
			input: "Here are your technical questions:\n\n" +
				"1. How does Python manage memory?\n" +
				"2. What changed in Python 3.10 pattern matching?\n" +
				"3. Design a rate limiter for a Django API.",
			want: []string{
				"How does Python manage memory?",
				"What changed in Python 3.10 pattern matching?",
				"Design a rate limiter for a Django API.",
			},
		},
		{
			name:  "continuation lines are joined",
			input: "1. Explain the difference between\n   processes and threads.\n2. What is a deadlock?",
			want:  []string{"Explain the difference between\n   processes and threads.", "What is a deadlock?"},
		},
		{
			name:  "inline list",
			input: "1. What is REST? 2. What is GraphQL?",
			want:  []string{"What is REST?", "What is GraphQL?"},
		},
		{
			name:  "tight numbering falls back to lines",
			input: "1.**Explain React hooks**(fundamentals)\nwith an example\n2.**What is JSX?**",
			want:  []string{"Explain React hooks", "What is JSX?"},
		},
		{
			name:  "no numbering",
			input: "What is Docker?\nWhat is a container image?",
			want:  []string{},
		},
		{
			name:  "empty",
			input: "   ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Parse(tt.input))
		})
	}
}

func TestLines(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"What is Docker?", "What is a container image?"}, Lines("\nWhat is Docker?\n\n  What is a container image?  \n"))
	assert.Nil(t, Lines(" \n "))
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	prompt := BuildPrompt([]string{"python", "django"})

	assert.Contains(t, prompt, "tech stack: python, django")
	assert.Contains(t, prompt, "Generate 3-5 relevant technical questions")
	assert.Contains(t, prompt, "scenario-based")
	assert.False(t, strings.Contains(prompt, "{{"), "placeholders must be replaced")
}
