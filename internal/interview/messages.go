package interview

import (
	_ "embed"
	"slices"
	"strings"
)

//go:embed system.md
var DefaultSystemPrompt string

// ExitKeywords end the conversation when found anywhere in a message.
var ExitKeywords = []string{"exit", "quit", "bye", "end", "goodbye"}

var affirmatives = []string{"yes", "correct", "that's right", "right"}

const (
	msgWelcome = "Hello! Welcome to TalentScout. I'm the hiring assistant and I'll guide you through " +
		"an initial screening for technical positions. I'll collect some information about you and " +
		"then ask a few technical questions based on your skills. You can type exit at any time to finish."

	msgConfirmation = "Thank you for providing your information. Let me summarize what you've shared:"
	msgConfirmAsk   = "Is this information correct? (yes/no)"
	msgStartAgain   = "Let's start again. "

	msgTechStackRejected = "I noticed that your tech stack information doesn't contain recognizable technologies. " +
		"This makes it difficult for me to generate relevant technical questions. " +
		"Please type /restart to start over and list technologies you're proficient in, " +
		"for example: Python, JavaScript, React, SQL."

	msgGenerationFailed = "I'm currently experiencing difficulties in generating technical questions. " +
		"Reply yes to try again, or type exit to finish."

	msgQuestionsIntro = "Here are your technical questions:"
	msgOneByOne       = "Let's go through them one by one."

	msgGoodbye = "Thank you for taking the time to complete this interview. " +
		"We appreciate your interest in joining our team. We will review your responses " +
		"and get back to you shortly regarding the next steps."

	msgClosing = "Thank you for completing the initial screening process with TalentScout. " +
		"We've collected your information and assessed your technical knowledge. " +
		"Our recruitment team will review your responses and get back to you soon if there's a potential match.\n\n" +
		"If you have any questions about your application or the recruitment process, " +
		"feel free to reach out to us at recruiter@talentscout.fictional.\n\n" +
		"Have a great day!"

	msgEnded = "Thank you for your time. The conversation has ended."
)

// IsExit reports whether the message contains an exit keyword. Matching is a
// case-insensitive substring check, so words such as "backend" also match.
func IsExit(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range ExitKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// IsAffirmative reports whether the reply confirms the summary.
func IsAffirmative(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	return strings.HasPrefix(lower, "y") || slices.Contains(affirmatives, lower)
}
