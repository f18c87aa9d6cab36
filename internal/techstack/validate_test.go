package techstack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		valid      bool
		recognized []string
	}{
		{
			name:       "mostly known",
			input:      "Python, Rust, Blorgonaut9000",
			valid:      true,
			recognized: []string{"python", "rust"},
		},
		{
			name:  "nothing known",
			input: "Blorgonaut9000, Zyx",
			valid: false,
		},
		{
			name:  "empty",
			input: "  ",
			valid: false,
		},
		{
			name:       "substring of known entry",
			input:      "node.js / ReactJS | something",
			valid:      true,
			recognized: []string{"node.js", "reactjs"},
		},
		{
			name:       "short entries only match exactly",
			input:      "go; cargo; r",
			valid:      true,
			recognized: []string{"go", "r"},
		},
		{
			name:       "exactly a quarter",
			input:      "docker, foo, bar, baz",
			valid:      true,
			recognized: []string{"docker"},
		},
		{
			name:       "below a quarter",
			input:      "docker, foo, bar, baz, qux",
			valid:      false,
			recognized: []string{"docker"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := Validate(tt.input)
			assert.Equal(t, tt.valid, res.Valid)
			assert.Equal(t, tt.recognized, res.Recognized)
		})
	}
}

func TestParseAnswer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  []string
	}{
		{"Python, Django and PostgreSQL", []string{"python", "django", "postgresql"}},
		{"I know Go; Docker & Kubernetes", []string{"go", "docker", "kubernetes"}},
		{"python go python", []string{"python", "go"}},
		{"machine learning, deep learning", []string{"machine learning", "deep learning"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseAnswer(tt.input))
		})
	}
}
