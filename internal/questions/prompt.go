package questions

import (
	_ "embed"
	"strconv"
	"strings"
)

//go:embed prompt.md
var promptTemplate string

const (
	MinQuestions = 3
	MaxQuestions = 5
)

// BuildPrompt renders the question generation request for a tech stack.
func BuildPrompt(stack []string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Generate {{MIN_QUESTIONS}}-{{MAX_QUESTIONS}} numbered technical interview questions for: {{TECH_STACK}}"
	}

	prompt := strings.ReplaceAll(template, "{{TECH_STACK}}", strings.Join(stack, ", "))
	prompt = strings.ReplaceAll(prompt, "{{MIN_QUESTIONS}}", strconv.Itoa(MinQuestions))
	prompt = strings.ReplaceAll(prompt, "{{MAX_QUESTIONS}}", strconv.Itoa(MaxQuestions))
	return prompt
}
